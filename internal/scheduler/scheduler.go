// Package scheduler drives the recurring auction clears: one poll loop,
// one non-blocking keyed lock per locale/placement pair, and the clearing
// engine doing all the actual settlement work.
package scheduler

import (
	"context"
	"sync"
	"time"

	auctiondomain "github.com/smallbiznis/spotlight/internal/auction/domain"
	"github.com/smallbiznis/spotlight/internal/auction/window"
	"github.com/smallbiznis/spotlight/internal/clock"
	settingsdomain "github.com/smallbiznis/spotlight/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Auction  auctiondomain.Service
	Settings settingsdomain.Resolver
	Config   Config `optional:"true"`
}

// Scheduler clears the window that just closed for every enabled pair.
//
// A clear is idempotent, so the poll interval may be shorter than the
// window length: ticks that find an already-settled window are no-ops.
type Scheduler struct {
	log      *zap.Logger
	clk      clock.Clock
	auction  auctiondomain.Service
	settings settingsdomain.Resolver
	cfg      Config
	locks    *keyedLocks
}

func NewScheduler(p Params) *Scheduler {
	return &Scheduler{
		log:      p.Log.Named("scheduler"),
		clk:      p.Clock,
		auction:  p.Auction,
		settings: p.Settings,
		cfg:      p.Config.withDefaults(),
		locks:    newKeyedLocks(),
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("clearing tick failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce clears the previous window for every enabled pair. Pairs run
// concurrently; a pair whose previous clear is still in flight is skipped.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	snapshots, err := s.settings.ListEnabled(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, snap := range snapshots {
		key := snap.Locale + "/" + snap.Placement
		if !s.locks.TryAcquire(key) {
			s.log.Debug("clear still running, skipping tick", zap.String("pair", key))
			continue
		}

		wg.Add(1)
		go func(snap settingsdomain.Snapshot, key string) {
			defer wg.Done()
			defer s.locks.Release(key)
			s.clearPair(ctx, snap)
		}(snap, key)
	}
	wg.Wait()
	return nil
}

func (s *Scheduler) clearPair(ctx context.Context, snap settingsdomain.Snapshot) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ClearTimeout)
	defer cancel()

	now := s.clk.Now()
	windowStart := window.PreviousStart(now, snap.WindowLength())

	result, err := s.auction.ClearWindow(ctx, auctiondomain.ClearWindowRequest{
		Locale:        snap.Locale,
		Placement:     snap.Placement,
		WindowStart:   &windowStart,
		ReferenceTime: now,
	})
	if err != nil {
		s.log.Warn("scheduled clear failed",
			zap.String("locale", snap.Locale),
			zap.String("placement", snap.Placement),
			zap.Time("window_start", windowStart),
			zap.Error(err),
		)
		return
	}

	if result.SettingsDisabled {
		return
	}
	if len(result.Activated)+len(result.Refunded)+len(result.RolledOver) > 0 {
		s.log.Info("scheduled clear settled sessions",
			zap.String("locale", snap.Locale),
			zap.String("placement", snap.Placement),
			zap.Time("window_start", windowStart),
			zap.Int("activated", len(result.Activated)),
			zap.Int("refunded", len(result.Refunded)),
			zap.Int("rolled_over", len(result.RolledOver)),
		)
	}
}
