package domain

import (
	"context"
	"errors"
	"time"
)

// ClearWindowRequest targets one clearing pass.
//
// WindowStart is optional: the scheduler passes the window that just closed
// explicitly, while an admin force-clear may omit it and have the engine
// derive the enclosing window from ReferenceTime. ReferenceTime defaults to
// the current time when zero.
type ClearWindowRequest struct {
	Locale        string
	Placement     string
	WindowStart   *time.Time
	ReferenceTime time.Time
}

// ListSessionsRequest filters sessions for one pair and window.
type ListSessionsRequest struct {
	Locale      string
	Placement   string
	WindowStart time.Time
	Status      SessionStatus
}

// Service is the boost auction clearing engine.
type Service interface {
	// ClearWindow ranks the window's pending bids, activates the winners
	// and resolves the losers. Safe to invoke concurrently and repeatedly
	// for the same window; a re-clear of a settled window returns empty
	// outcome lists.
	ClearWindow(ctx context.Context, req ClearWindowRequest) (*ClearResult, error)

	// ListSessions returns the sessions recorded for a window, read-only.
	ListSessions(ctx context.Context, req ListSessionsRequest) ([]BoostSession, error)
}

var (
	ErrInvalidLocale      = errors.New("invalid_locale")
	ErrInvalidPlacement   = errors.New("invalid_placement")
	ErrInvalidWindowStart = errors.New("invalid_window_start")
	ErrInvalidStatus      = errors.New("invalid_status")
)
