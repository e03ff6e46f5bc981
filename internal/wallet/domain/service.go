package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Ledger is the wallet contract the clearing engine settles refunds
// through. Credits must be idempotent per reference so a retried loser
// transition can never double-refund.
//
// CreditBackTx posts inside an existing transaction, so a caller can make
// the credit atomic with its own status transition.
type Ledger interface {
	CreditBack(ctx context.Context, userID snowflake.ID, amountCredits int64, reference string) error
	CreditBackTx(ctx context.Context, tx *gorm.DB, userID snowflake.ID, amountCredits int64, reference string) error
}

var (
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidReference = errors.New("invalid_reference")
)
