package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ActorType represents who triggered an action.
type ActorType string

const (
	ActorTypeAdmin     ActorType = "admin"
	ActorTypeScheduler ActorType = "scheduler"
)

const (
	ActionClearWindow    = "auction.clear_window"
	ActionUpsertSettings = "auction.upsert_settings"
)

const (
	TargetTypeAuctionWindow   = "auction_window"
	TargetTypeAuctionSettings = "auction_settings"
)

// AuditLog captures an immutable record of an administrative auction action.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	ActorType  string            `gorm:"type:text;not null"`
	ActorID    *string           `gorm:"type:text"`
	Action     string            `gorm:"type:text;not null;index"`
	TargetType string            `gorm:"type:text;not null"`
	TargetID   *string           `gorm:"type:text"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }
