package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auctiondomain "github.com/smallbiznis/spotlight/internal/auction/domain"
	auditdomain "github.com/smallbiznis/spotlight/internal/audit/domain"
	settingsdomain "github.com/smallbiznis/spotlight/internal/settings/domain"
)

// recordAudit writes an admin audit entry. Failures are logged inside the
// recorder and never surfaced to the caller.
func (s *Server) recordAudit(c *gin.Context, action, targetType, targetID string, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(c.Request.Context(), auditdomain.Entry{
		ActorType:  auditdomain.ActorTypeAdmin,
		Action:     action,
		TargetType: targetType,
		TargetID:   &targetID,
		Metadata:   metadata,
	})
}

type clearWindowRequest struct {
	Locale        string     `json:"locale"`
	Placement     string     `json:"placement"`
	WindowStart   *time.Time `json:"window_start,omitempty"`
	ReferenceTime *time.Time `json:"reference_time,omitempty"`
}

// ClearAuctionWindow force-clears one window. The scheduler calls the same
// engine; this endpoint exists for manual and historical clears.
func (s *Server) ClearAuctionWindow(c *gin.Context) {
	if !s.clearLimit.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	var req clearWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.Locale = strings.TrimSpace(req.Locale)
	if req.Locale == "" {
		AbortWithError(c, newValidationError("locale", "invalid_locale", "locale is required"))
		return
	}
	req.Placement = strings.TrimSpace(req.Placement)
	if req.Placement == "" {
		AbortWithError(c, newValidationError("placement", "invalid_placement", "placement is required"))
		return
	}

	engineReq := auctiondomain.ClearWindowRequest{
		Locale:      req.Locale,
		Placement:   req.Placement,
		WindowStart: req.WindowStart,
	}
	if req.ReferenceTime != nil {
		engineReq.ReferenceTime = *req.ReferenceTime
	}

	result, err := s.auctionSvc.ClearWindow(c.Request.Context(), engineReq)
	if err != nil && result == nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, auditdomain.ActionClearWindow, auditdomain.TargetTypeAuctionWindow,
		req.Locale+"/"+req.Placement, map[string]any{
			"window_start": result.WindowStart,
			"activated":    len(result.Activated),
			"refunded":     len(result.Refunded),
			"rolled_over":  len(result.RolledOver),
			"failed":       len(result.Failed),
		})
	if err != nil {
		// Partial failure: some sessions stayed pending. Return the result
		// so the caller can re-invoke the same clear.
		c.JSON(http.StatusMultiStatus, gin.H{"result": result, "error": "partial_failure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ListAuctionSessions returns the sessions of one window, read-only.
func (s *Server) ListAuctionSessions(c *gin.Context) {
	locale := strings.TrimSpace(c.Query("locale"))
	if locale == "" {
		AbortWithError(c, newValidationError("locale", "invalid_locale", "locale is required"))
		return
	}
	placement := strings.TrimSpace(c.Query("placement"))
	if placement == "" {
		AbortWithError(c, newValidationError("placement", "invalid_placement", "placement is required"))
		return
	}

	windowStartRaw := strings.TrimSpace(c.Query("window_start"))
	if windowStartRaw == "" {
		AbortWithError(c, newValidationError("window_start", "invalid_window_start", "window_start is required"))
		return
	}
	windowStart, err := time.Parse(time.RFC3339, windowStartRaw)
	if err != nil {
		AbortWithError(c, newValidationError("window_start", "invalid_window_start", "window_start must be RFC3339"))
		return
	}

	status := auctiondomain.SessionStatus(strings.TrimSpace(c.Query("status")))

	sessions, err := s.auctionSvc.ListSessions(c.Request.Context(), auctiondomain.ListSessionsRequest{
		Locale:      locale,
		Placement:   placement,
		WindowStart: windowStart,
		Status:      status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

type upsertSettingsRequest struct {
	Locale          string `json:"locale"`
	Placement       string `json:"placement"`
	Enabled         bool   `json:"enabled"`
	MinBidCredits   int64  `json:"min_bid_credits"`
	WindowMinutes   int    `json:"window_minutes"`
	DurationMinutes int    `json:"duration_minutes"`
	MaxWinners      int    `json:"max_winners"`
}

// UpsertAuctionSettings creates or replaces a pair's configuration.
func (s *Server) UpsertAuctionSettings(c *gin.Context) {
	var req upsertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.settingsSvc.Upsert(c.Request.Context(), settingsdomain.AuctionSettings{
		Locale:          req.Locale,
		Placement:       req.Placement,
		Enabled:         req.Enabled,
		MinBidCredits:   req.MinBidCredits,
		WindowMinutes:   req.WindowMinutes,
		DurationMinutes: req.DurationMinutes,
		MaxWinners:      req.MaxWinners,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.ActionUpsertSettings, auditdomain.TargetTypeAuctionSettings,
		req.Locale+"/"+req.Placement, map[string]any{
			"enabled":          req.Enabled,
			"min_bid_credits":  req.MinBidCredits,
			"window_minutes":   req.WindowMinutes,
			"duration_minutes": req.DurationMinutes,
			"max_winners":      req.MaxWinners,
		})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
