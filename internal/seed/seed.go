package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Default development configuration: the spotlight placement in the main
// locale.
const (
	defaultLocale          = "en"
	defaultPlacement       = "spotlight"
	defaultMinBidCredits   = 5
	defaultWindowMinutes   = 15
	defaultDurationMinutes = 120
	defaultMaxWinners      = 2
)

// EnsureDefaultSettings seeds an enabled auction configuration for local
// development so a fresh database has something to clear.
func EnsureDefaultSettings(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id node is required")
	}

	ctx := context.Background()
	now := time.Now().UTC()
	return db.WithContext(ctx).Exec(
		`INSERT INTO auction_settings (
			id, locale, placement, enabled, min_bid_credits,
			window_minutes, duration_minutes, max_winners, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (locale, placement) DO NOTHING`,
		node.Generate(),
		defaultLocale,
		defaultPlacement,
		true,
		defaultMinBidCredits,
		defaultWindowMinutes,
		defaultDurationMinutes,
		defaultMaxWinners,
		now,
		now,
	).Error
}
