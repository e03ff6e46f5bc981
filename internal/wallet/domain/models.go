package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EntryDirection represents debit or credit postings on a user wallet.
type EntryDirection string

const (
	EntryDirectionDebit  EntryDirection = "debit"
	EntryDirectionCredit EntryDirection = "credit"
)

const (
	SourceTypeBoostRefund = "boost_refund"
	SourceTypeBoostBid    = "boost_bid"
	SourceTypeAdjustment  = "adjustment"
)

// WalletEntry records a single credit movement. The unique reference makes
// writes idempotent: replaying a settlement produces no second entry.
type WalletEntry struct {
	ID            snowflake.ID   `gorm:"primaryKey"`
	UserID        snowflake.ID   `gorm:"not null;index"`
	Direction     EntryDirection `gorm:"type:text;not null"`
	AmountCredits int64          `gorm:"not null"`
	Reference     string         `gorm:"type:text;not null;uniqueIndex:ux_wallet_entries_reference"`
	SourceType    string         `gorm:"type:text;not null;index"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (WalletEntry) TableName() string { return "wallet_entries" }
