package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AuctionSettings is the stored per locale/placement auction configuration.
type AuctionSettings struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Locale    string       `gorm:"type:text;not null;uniqueIndex:ux_auction_settings_pair,priority:1" json:"locale"`
	Placement string       `gorm:"type:text;not null;uniqueIndex:ux_auction_settings_pair,priority:2" json:"placement"`

	// Enabled is the kill switch for the pair: when false every caller,
	// scheduler and admin alike, short-circuits without mutating sessions.
	Enabled bool `gorm:"not null;default:false" json:"enabled"`

	MinBidCredits   int64 `gorm:"not null" json:"min_bid_credits"`
	WindowMinutes   int   `gorm:"not null" json:"window_minutes"`
	DurationMinutes int   `gorm:"not null" json:"duration_minutes"`
	MaxWinners      int   `gorm:"not null" json:"max_winners"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (AuctionSettings) TableName() string { return "auction_settings" }

// Snapshot is the immutable view of a pair's configuration used for one
// clearing pass. Settings changes never take effect mid-pass.
type Snapshot struct {
	Locale          string `json:"locale"`
	Placement       string `json:"placement"`
	Enabled         bool   `json:"enabled"`
	MinBidCredits   int64  `json:"min_bid_credits"`
	WindowMinutes   int    `json:"window_minutes"`
	DurationMinutes int    `json:"duration_minutes"`
	MaxWinners      int    `json:"max_winners"`
}

// WindowLength returns the auction window length.
func (s Snapshot) WindowLength() time.Duration {
	return time.Duration(s.WindowMinutes) * time.Minute
}

// BoostDuration returns how long an activated boost stays live.
func (s Snapshot) BoostDuration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
