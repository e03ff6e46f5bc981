package scheduler

import (
	"context"

	"github.com/smallbiznis/spotlight/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(newConfig),
	fx.Provide(NewScheduler),
	fx.Invoke(runScheduler),
)

func newConfig(cfg config.Config) Config {
	return Config{
		PollInterval: cfg.SchedulerPollInterval,
	}.withDefaults()
}

func runScheduler(lc fx.Lifecycle, cfg config.Config, worker *Scheduler) {
	if !cfg.SchedulerEnabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
