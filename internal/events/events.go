package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Settlement event types emitted by the clearing engine.
const (
	TypeBoostActivated  = "boost.activated"
	TypeBoostRefunded   = "boost.refunded"
	TypeBoostRolledOver = "boost.rolled_over"
)

// BoostEvent is one outbox row awaiting delivery to downstream consumers
// (notifications, analytics). The dedupe key keeps replayed clears from
// producing duplicate events.
type BoostEvent struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	EventType string            `gorm:"type:text;not null;index"`
	SessionID snowflake.ID      `gorm:"not null;index"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	DedupeKey string            `gorm:"type:text;not null;uniqueIndex:ux_boost_events_dedupe"`
	Published bool              `gorm:"not null;default:false;index"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BoostEvent) TableName() string { return "boost_events" }
