package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// SessionRepository provides reads and conditional settlement writes for
// boost sessions.
//
// Every write is conditioned on the session still being pending for the
// given window; the boolean return reports whether the transition was
// applied. A false result means another clearing pass settled the session
// first and is not an error.
type SessionRepository interface {
	FindPending(ctx context.Context, db *gorm.DB, locale, placement string, windowStart time.Time) ([]BoostSession, error)
	ListByWindow(ctx context.Context, db *gorm.DB, locale, placement string, windowStart time.Time, status SessionStatus) ([]BoostSession, error)
	CountActive(ctx context.Context, db *gorm.DB, locale, placement string, windowStart time.Time) (int, error)

	Activate(ctx context.Context, db *gorm.DB, id snowflake.ID, windowStart, startsAt, endsAt, now time.Time) (bool, error)
	Refund(ctx context.Context, db *gorm.DB, id snowflake.ID, windowStart, now time.Time) (bool, error)
	Rollover(ctx context.Context, db *gorm.DB, id snowflake.ID, windowStart, nextWindowStart, now time.Time) (bool, error)
}
