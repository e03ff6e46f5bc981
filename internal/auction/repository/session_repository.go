package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	auctiondomain "github.com/smallbiznis/spotlight/internal/auction/domain"
	"gorm.io/gorm"
)

// SessionRepository persists boost sessions. Settlement writes are raw
// conditional updates: the WHERE clause re-checks status and window at
// write time and RowsAffected tells the caller whether this pass won the
// transition.
type SessionRepository struct{}

func Provide() auctiondomain.SessionRepository {
	return &SessionRepository{}
}

func (r *SessionRepository) FindPending(ctx context.Context, db *gorm.DB, locale, placement string, windowStart time.Time) ([]auctiondomain.BoostSession, error) {
	return r.ListByWindow(ctx, db, locale, placement, windowStart, auctiondomain.SessionStatusPending)
}

func (r *SessionRepository) ListByWindow(ctx context.Context, db *gorm.DB, locale, placement string, windowStart time.Time, status auctiondomain.SessionStatus) ([]auctiondomain.BoostSession, error) {
	query := db.WithContext(ctx).
		Where("locale = ? AND placement = ? AND auction_window_start = ?", locale, placement, windowStart.UTC())
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var sessions []auctiondomain.BoostSession
	if err := query.Order("created_at ASC, id ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) CountActive(ctx context.Context, db *gorm.DB, locale, placement string, windowStart time.Time) (int, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&auctiondomain.BoostSession{}).
		Where("locale = ? AND placement = ? AND auction_window_start = ? AND status = ?",
			locale, placement, windowStart.UTC(), auctiondomain.SessionStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *SessionRepository) Activate(ctx context.Context, db *gorm.DB, id snowflake.ID, windowStart, startsAt, endsAt, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE boost_sessions
		 SET status = ?, started_at = ?, ends_at = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND auction_window_start = ?`,
		auctiondomain.SessionStatusActive,
		startsAt.UTC(),
		endsAt.UTC(),
		now.UTC(),
		id,
		auctiondomain.SessionStatusPending,
		windowStart.UTC(),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SessionRepository) Refund(ctx context.Context, db *gorm.DB, id snowflake.ID, windowStart, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE boost_sessions
		 SET status = ?, refunded_at = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND auction_window_start = ?`,
		auctiondomain.SessionStatusRefunded,
		now.UTC(),
		now.UTC(),
		id,
		auctiondomain.SessionStatusPending,
		windowStart.UTC(),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SessionRepository) Rollover(ctx context.Context, db *gorm.DB, id snowflake.ID, windowStart, nextWindowStart, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE boost_sessions
		 SET auction_window_start = ?, rollover_count = rollover_count + 1, updated_at = ?
		 WHERE id = ? AND status = ? AND auction_window_start = ?`,
		nextWindowStart.UTC(),
		now.UTC(),
		id,
		auctiondomain.SessionStatusPending,
		windowStart.UTC(),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
