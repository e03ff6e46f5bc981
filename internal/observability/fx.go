package observability

import (
	"github.com/smallbiznis/spotlight/internal/config"
	"github.com/smallbiznis/spotlight/internal/observability/logger"
	"github.com/smallbiznis/spotlight/internal/observability/metrics"
	"github.com/smallbiznis/spotlight/internal/observability/tracing"
	"go.uber.org/fx"
)

var version = "dev"

var Module = fx.Options(
	logger.Module,
	fx.Provide(newTracingConfig),
	fx.Provide(newAuctionMetrics),
	fx.Invoke(tracing.NewProvider),
)

func newTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.TracingEnabled,
		ServiceName:      "spotlight",
		ServiceVersion:   version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.TracingEndpoint,
		ExporterProtocol: cfg.TracingProtocol,
		SamplingRatio:    cfg.TracingSamplingRatio,
	}
}

func newAuctionMetrics(cfg config.Config) *metrics.AuctionMetrics {
	return metrics.AuctionWithConfig(metrics.Config{
		ServiceName: "spotlight",
		Environment: cfg.Environment,
	})
}
