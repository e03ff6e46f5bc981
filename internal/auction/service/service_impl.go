package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auctiondomain "github.com/smallbiznis/spotlight/internal/auction/domain"
	"github.com/smallbiznis/spotlight/internal/auction/window"
	"github.com/smallbiznis/spotlight/internal/clock"
	"github.com/smallbiznis/spotlight/internal/events"
	"github.com/smallbiznis/spotlight/internal/observability/metrics"
	settingsdomain "github.com/smallbiznis/spotlight/internal/settings/domain"
	walletdomain "github.com/smallbiznis/spotlight/internal/wallet/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Settings settingsdomain.Resolver
	Sessions auctiondomain.SessionRepository
	Ledger   walletdomain.Ledger
	Outbox   *events.Outbox
	Metrics  *metrics.AuctionMetrics `optional:"true"`
}

// Service is the boost auction clearing engine.
//
// It holds no state of its own: all synchronization happens through the
// per-session conditional writes in the repository, which makes a clear
// safe to invoke concurrently from the scheduler and an admin, and safe to
// re-invoke after a partial failure.
type Service struct {
	db  *gorm.DB
	log *zap.Logger

	clk      clock.Clock
	settings settingsdomain.Resolver
	sessions auctiondomain.SessionRepository
	ledger   walletdomain.Ledger
	outbox   *events.Outbox
	metrics  *metrics.AuctionMetrics
	tracer   trace.Tracer
}

func NewService(p ServiceParam) auctiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("auction.service"),

		clk:      p.Clock,
		settings: p.Settings,
		sessions: p.Sessions,
		ledger:   p.Ledger,
		outbox:   p.Outbox,
		metrics:  p.Metrics,
		tracer:   otel.Tracer("spotlight/auction"),
	}
}

func (s *Service) ClearWindow(ctx context.Context, req auctiondomain.ClearWindowRequest) (*auctiondomain.ClearResult, error) {
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		return nil, auctiondomain.ErrInvalidLocale
	}
	placement := strings.TrimSpace(req.Placement)
	if placement == "" {
		return nil, auctiondomain.ErrInvalidPlacement
	}

	snap, err := s.settings.Resolve(ctx, locale, placement)
	if err != nil {
		return nil, err
	}

	result := &auctiondomain.ClearResult{
		Locale:    locale,
		Placement: placement,
	}
	if !snap.Enabled {
		// Kill switch for the pair: report, write nothing.
		result.SettingsDisabled = true
		return result, nil
	}

	windowLength := snap.WindowLength()

	var windowStart time.Time
	if req.WindowStart != nil {
		windowStart = req.WindowStart.UTC()
		if !window.Aligned(windowStart, windowLength) {
			return nil, auctiondomain.ErrInvalidWindowStart
		}
	} else {
		reference := req.ReferenceTime
		if reference.IsZero() {
			reference = s.clk.Now()
		}
		windowStart = window.Start(reference, windowLength)
	}

	boostStartsAt, boostEndsAt := window.Timing(windowStart, windowLength, snap.BoostDuration())
	nextWindowStart := window.Next(windowStart, windowLength)

	result.WindowStart = windowStart
	result.WindowEnd = nextWindowStart
	result.BoostStartsAt = boostStartsAt
	result.BoostEndsAt = boostEndsAt
	result.NextWindowStart = nextWindowStart

	ctx, span := s.tracer.Start(ctx, "auction.clear_window",
		trace.WithAttributes(
			attribute.String("auction.locale", locale),
			attribute.String("auction.placement", placement),
			attribute.String("auction.window_start", windowStart.Format(time.RFC3339)),
		),
	)
	defer span.End()

	started := time.Now()
	defer func() {
		s.metrics.ObserveClearDuration(time.Since(started))
	}()

	// One read of the full candidate set; ranking happens in memory before
	// any write so winner selection is deterministic regardless of
	// concurrent interleavings.
	pending, err := s.sessions.FindPending(ctx, s.db, locale, placement, windowStart)
	if err != nil {
		return nil, err
	}
	rankSessions(pending)

	// Slots claimed by an earlier pass of this window stay claimed: a
	// re-invoked clear after a partial failure only fills what is left, so
	// the window can never exceed maxWinners active sessions.
	activeCount, err := s.sessions.CountActive(ctx, s.db, locale, placement, windowStart)
	if err != nil {
		return nil, err
	}
	openSlots := snap.MaxWinners - activeCount
	if openSlots < 0 {
		openSlots = 0
	}
	winners := min(openSlots, len(pending))
	now := s.clk.Now().UTC()

	var errs []error
	for i, sess := range pending {
		var settleErr error
		if i < winners {
			settleErr = s.activate(ctx, sess, windowStart, boostStartsAt, boostEndsAt, now, result)
		} else if sess.AutoRollover {
			settleErr = s.rollover(ctx, sess, windowStart, nextWindowStart, now, result)
		} else {
			settleErr = s.refund(ctx, sess, windowStart, now, result)
		}
		if settleErr != nil {
			result.Failed = append(result.Failed, sess.ID)
			errs = append(errs, settleErr)
			s.metrics.IncSessionSettled("failed")
		}
	}

	s.metrics.IncWindowCleared(locale, placement)
	span.SetAttributes(
		attribute.Int("auction.candidates", len(pending)),
		attribute.Int("auction.activated", len(result.Activated)),
		attribute.Int("auction.refunded", len(result.Refunded)),
		attribute.Int("auction.rolled_over", len(result.RolledOver)),
	)

	s.log.Info("auction window cleared",
		zap.String("locale", locale),
		zap.String("placement", placement),
		zap.Time("window_start", windowStart),
		zap.Int("candidates", len(pending)),
		zap.Int("activated", len(result.Activated)),
		zap.Int("refunded", len(result.Refunded)),
		zap.Int("rolled_over", len(result.RolledOver)),
		zap.Int("failed", len(result.Failed)),
	)

	return result, errors.Join(errs...)
}

func (s *Service) ListSessions(ctx context.Context, req auctiondomain.ListSessionsRequest) ([]auctiondomain.BoostSession, error) {
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		return nil, auctiondomain.ErrInvalidLocale
	}
	placement := strings.TrimSpace(req.Placement)
	if placement == "" {
		return nil, auctiondomain.ErrInvalidPlacement
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, auctiondomain.ErrInvalidStatus
	}

	snap, err := s.settings.Resolve(ctx, locale, placement)
	if err != nil {
		return nil, err
	}
	if req.WindowStart.IsZero() || !window.Aligned(req.WindowStart.UTC(), snap.WindowLength()) {
		return nil, auctiondomain.ErrInvalidWindowStart
	}

	return s.sessions.ListByWindow(ctx, s.db, locale, placement, req.WindowStart.UTC(), req.Status)
}

func (s *Service) activate(ctx context.Context, sess auctiondomain.BoostSession, windowStart, startsAt, endsAt, now time.Time, result *auctiondomain.ClearResult) error {
	ok, err := s.sessions.Activate(ctx, s.db, sess.ID, windowStart, startsAt, endsAt, now)
	if err != nil {
		s.log.Warn("activate failed", zap.String("session_id", sess.ID.String()), zap.Error(err))
		return err
	}
	if !ok {
		// Another pass settled this session first. Expected under
		// concurrency, not an error.
		s.metrics.IncSessionSettled("skipped")
		return nil
	}

	result.Activated = append(result.Activated, sess.ID)
	s.metrics.IncSessionSettled("activated")
	s.publishEvent(ctx, events.TypeBoostActivated, sess, windowStart, map[string]any{
		"user_id":    sess.UserID.String(),
		"starts_at":  startsAt.Format(time.RFC3339),
		"ends_at":    endsAt.Format(time.RFC3339),
		"bid_amount": sess.BidAmountCredits,
	})
	return nil
}

func (s *Service) rollover(ctx context.Context, sess auctiondomain.BoostSession, windowStart, nextWindowStart, now time.Time, result *auctiondomain.ClearResult) error {
	ok, err := s.sessions.Rollover(ctx, s.db, sess.ID, windowStart, nextWindowStart, now)
	if err != nil {
		s.log.Warn("rollover failed", zap.String("session_id", sess.ID.String()), zap.Error(err))
		return err
	}
	if !ok {
		s.metrics.IncSessionSettled("skipped")
		return nil
	}

	result.RolledOver = append(result.RolledOver, sess.ID)
	s.metrics.IncSessionSettled("rolled_over")
	s.publishEvent(ctx, events.TypeBoostRolledOver, sess, windowStart, map[string]any{
		"user_id":           sess.UserID.String(),
		"next_window_start": nextWindowStart.Format(time.RFC3339),
		"rollover_count":    sess.RolloverCount + 1,
	})
	return nil
}

func (s *Service) refund(ctx context.Context, sess auctiondomain.BoostSession, windowStart, now time.Time, result *auctiondomain.ClearResult) error {
	// The status flip and the wallet credit commit together: a failed
	// credit rolls the session back to pending, so a re-invoked clear
	// retries the refund instead of finding it already settled without its
	// credit. The unique wallet reference keeps the retry from
	// double-crediting.
	var won bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.sessions.Refund(ctx, tx, sess.ID, windowStart, now)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		won = true
		return s.ledger.CreditBackTx(ctx, tx, sess.UserID, sess.BidAmountCredits, refundReference(sess.ID))
	})
	if err != nil {
		s.log.Error("refund failed",
			zap.String("session_id", sess.ID.String()),
			zap.String("user_id", sess.UserID.String()),
			zap.Error(err),
		)
		return err
	}
	if !won {
		s.metrics.IncSessionSettled("skipped")
		return nil
	}

	result.Refunded = append(result.Refunded, sess.ID)
	s.metrics.IncSessionSettled("refunded")
	s.publishEvent(ctx, events.TypeBoostRefunded, sess, windowStart, map[string]any{
		"user_id":    sess.UserID.String(),
		"bid_amount": sess.BidAmountCredits,
	})
	return nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, sess auctiondomain.BoostSession, windowStart time.Time, payload map[string]any) {
	if s.outbox == nil {
		return
	}
	err := s.outbox.Publish(ctx, events.Event{
		Type:      eventType,
		SessionID: sess.ID,
		Payload:   payload,
		DedupeKey: fmt.Sprintf("%s:%d:%s", sess.ID.String(), windowStart.Unix(), eventType),
	})
	if err != nil {
		// The settlement itself already committed; event delivery is
		// best-effort and recoverable from session state.
		s.log.Warn("publish settlement event failed",
			zap.String("session_id", sess.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// rankSessions orders candidates by descending bid, then descending budget
// when both declare one, then ascending creation time, then ascending id.
// The order is total, so repeated clears of the same window rank
// identically.
func rankSessions(sessions []auctiondomain.BoostSession) {
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.BidAmountCredits != b.BidAmountCredits {
			return a.BidAmountCredits > b.BidAmountCredits
		}
		if a.BudgetCredits != nil && b.BudgetCredits != nil && *a.BudgetCredits != *b.BudgetCredits {
			return *a.BudgetCredits > *b.BudgetCredits
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func refundReference(id snowflake.ID) string {
	return "boost_refund:" + id.String()
}
