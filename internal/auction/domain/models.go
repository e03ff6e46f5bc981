// Package domain contains the boost auction session model and the
// contracts the clearing engine is built on.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// SessionStatus is the settlement state of a boost session.
type SessionStatus string

const (
	// SessionStatusPending awaits the next clearing pass of its window.
	SessionStatusPending SessionStatus = "pending"
	// SessionStatusActive won its window and is currently boosted.
	SessionStatusActive SessionStatus = "active"
	// SessionStatusRefunded lost its window and had its credits returned.
	SessionStatusRefunded SessionStatus = "refunded"
)

// Valid reports whether the status is one the engine knows about.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusPending, SessionStatusActive, SessionStatusRefunded:
		return true
	}
	return false
}

// BoostSession is one bid/allocation record for a locale/placement pair.
//
// A session is created by the bid submission service with status pending and
// is exclusively mutated by the clearing engine afterwards. Status leaves
// pending at most once per window evaluation; a rollover keeps the session
// pending but re-tags it with the next window start.
type BoostSession struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Locale    string       `gorm:"type:text;not null;index:idx_boost_sessions_window,priority:1" json:"locale"`
	Placement string       `gorm:"type:text;not null;index:idx_boost_sessions_window,priority:2" json:"placement"`

	UserID           snowflake.ID `gorm:"not null;index" json:"user_id"`
	BidAmountCredits int64        `gorm:"not null" json:"bid_amount_credits"`
	BudgetCredits    *int64       `json:"budget_credits,omitempty"`

	AuctionWindowStart time.Time     `gorm:"not null;index:idx_boost_sessions_window,priority:3" json:"auction_window_start"`
	Status             SessionStatus `gorm:"type:text;not null;default:pending;index:idx_boost_sessions_window,priority:4" json:"status"`

	AutoRollover  bool `gorm:"not null;default:false" json:"auto_rollover"`
	RolloverCount int  `gorm:"not null;default:0" json:"rollover_count"`

	StartedAt  *time.Time `json:"started_at,omitempty"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	RefundedAt *time.Time `json:"-"`

	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (BoostSession) TableName() string { return "boost_sessions" }

// ClearResult reports the outcome of one clearing pass. It is returned to
// the caller and never persisted by the engine.
type ClearResult struct {
	Locale    string `json:"locale"`
	Placement string `json:"placement"`

	WindowStart     time.Time `json:"window_start"`
	WindowEnd       time.Time `json:"window_end"`
	BoostStartsAt   time.Time `json:"boost_starts_at"`
	BoostEndsAt     time.Time `json:"boost_ends_at"`
	NextWindowStart time.Time `json:"next_window_start"`

	SettingsDisabled bool `json:"settings_disabled"`

	Activated  []snowflake.ID `json:"activated"`
	Refunded   []snowflake.ID `json:"refunded"`
	RolledOver []snowflake.ID `json:"rolled_over"`

	// Failed lists sessions whose settlement write hit a transient store
	// error. They stay pending and are picked up by re-invoking the clear.
	Failed []snowflake.ID `json:"failed,omitempty"`
}
