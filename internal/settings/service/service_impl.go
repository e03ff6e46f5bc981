package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/spotlight/internal/cache"
	settingsdomain "github.com/smallbiznis/spotlight/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const snapshotTTL = 30 * time.Second

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cache cache.Cache[string, settingsdomain.Snapshot] `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	cache cache.Cache[string, settingsdomain.Snapshot]
}

func NewService(p ServiceParam) settingsdomain.Resolver {
	c := p.Cache
	if c == nil {
		c = cache.NewTTLCache[string, settingsdomain.Snapshot]()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		genID: p.GenID,
		cache: c,
	}
}

func (s *Service) Resolve(ctx context.Context, locale, placement string) (settingsdomain.Snapshot, error) {
	locale = strings.TrimSpace(locale)
	placement = strings.TrimSpace(placement)
	if locale == "" || placement == "" {
		return settingsdomain.Snapshot{}, settingsdomain.ErrSettingsNotFound
	}

	key := pairKey(locale, placement)
	if snap, ok := s.cache.Get(key); ok {
		return snap, nil
	}

	var row settingsdomain.AuctionSettings
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, locale, placement, enabled, min_bid_credits, window_minutes, duration_minutes, max_winners
		 FROM auction_settings
		 WHERE locale = ? AND placement = ?`,
		locale,
		placement,
	).Scan(&row).Error
	if err != nil {
		return settingsdomain.Snapshot{}, err
	}
	if row.ID == 0 {
		return settingsdomain.Snapshot{}, settingsdomain.ErrSettingsNotFound
	}

	snap := toSnapshot(row)
	s.cache.Set(key, snap, snapshotTTL)
	return snap, nil
}

func (s *Service) ListEnabled(ctx context.Context) ([]settingsdomain.Snapshot, error) {
	var rows []settingsdomain.AuctionSettings
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, locale, placement, enabled, min_bid_credits, window_minutes, duration_minutes, max_winners
		 FROM auction_settings
		 WHERE enabled = ?
		 ORDER BY locale ASC, placement ASC`,
		true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	snapshots := make([]settingsdomain.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, toSnapshot(row))
	}
	return snapshots, nil
}

func (s *Service) Upsert(ctx context.Context, settings settingsdomain.AuctionSettings) error {
	settings.Locale = strings.TrimSpace(settings.Locale)
	settings.Placement = strings.TrimSpace(settings.Placement)
	if err := validate(settings); err != nil {
		return err
	}

	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO auction_settings (
			id, locale, placement, enabled, min_bid_credits,
			window_minutes, duration_minutes, max_winners, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (locale, placement) DO UPDATE SET
			enabled = excluded.enabled,
			min_bid_credits = excluded.min_bid_credits,
			window_minutes = excluded.window_minutes,
			duration_minutes = excluded.duration_minutes,
			max_winners = excluded.max_winners,
			updated_at = excluded.updated_at`,
		s.genID.Generate(),
		settings.Locale,
		settings.Placement,
		settings.Enabled,
		settings.MinBidCredits,
		settings.WindowMinutes,
		settings.DurationMinutes,
		settings.MaxWinners,
		now,
		now,
	).Error
	if err != nil {
		return err
	}

	s.cache.Delete(pairKey(settings.Locale, settings.Placement))
	return nil
}

func validate(settings settingsdomain.AuctionSettings) error {
	if settings.Locale == "" || settings.Placement == "" {
		return settingsdomain.ErrInvalidSettings
	}
	if settings.WindowMinutes <= 0 || settings.DurationMinutes <= 0 {
		return settingsdomain.ErrInvalidSettings
	}
	if settings.MaxWinners <= 0 || settings.MinBidCredits < 0 {
		return settingsdomain.ErrInvalidSettings
	}
	return nil
}

func toSnapshot(row settingsdomain.AuctionSettings) settingsdomain.Snapshot {
	return settingsdomain.Snapshot{
		Locale:          row.Locale,
		Placement:       row.Placement,
		Enabled:         row.Enabled,
		MinBidCredits:   row.MinBidCredits,
		WindowMinutes:   row.WindowMinutes,
		DurationMinutes: row.DurationMinutes,
		MaxWinners:      row.MaxWinners,
	}
}

func pairKey(locale, placement string) string {
	return locale + "/" + placement
}
