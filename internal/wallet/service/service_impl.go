package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	walletdomain "github.com/smallbiznis/spotlight/internal/wallet/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service posts wallet entries against the platform database. A remote
// ledger can replace it behind the same interface.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p ServiceParam) walletdomain.Ledger {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("wallet.service"),
		genID: p.GenID,
	}
}

func (s *Service) CreditBack(ctx context.Context, userID snowflake.ID, amountCredits int64, reference string) error {
	return s.creditBack(ctx, s.db, userID, amountCredits, reference)
}

func (s *Service) CreditBackTx(ctx context.Context, tx *gorm.DB, userID snowflake.ID, amountCredits int64, reference string) error {
	if tx == nil {
		return errors.New("missing_transaction")
	}
	return s.creditBack(ctx, tx, userID, amountCredits, reference)
}

func (s *Service) creditBack(ctx context.Context, db *gorm.DB, userID snowflake.ID, amountCredits int64, reference string) error {
	if userID == 0 {
		return walletdomain.ErrInvalidUser
	}
	if amountCredits <= 0 {
		return walletdomain.ErrInvalidAmount
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return walletdomain.ErrInvalidReference
	}

	now := time.Now().UTC()
	return db.WithContext(ctx).Exec(
		`INSERT INTO wallet_entries (id, user_id, direction, amount_credits, reference, source_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (reference) DO NOTHING`,
		s.genID.Generate(),
		userID,
		walletdomain.EntryDirectionCredit,
		amountCredits,
		reference,
		walletdomain.SourceTypeBoostRefund,
		now,
	).Error
}
