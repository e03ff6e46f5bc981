package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AuctionMetrics exposes clearing engine counters and latency.
type AuctionMetrics struct {
	windowsCleared  *prometheus.CounterVec
	sessionsSettled *prometheus.CounterVec
	clearDuration   prometheus.Histogram
}

var (
	auctionMetricsOnce sync.Once
	auctionMetrics     *AuctionMetrics
)

func Auction() *AuctionMetrics {
	return AuctionWithConfig(Config{})
}

func AuctionWithConfig(cfg Config) *AuctionMetrics {
	auctionMetricsOnce.Do(func() {
		auctionMetrics = newAuctionMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return auctionMetrics
}

func ResetAuctionMetricsForTest() {
	auctionMetricsOnce = sync.Once{}
	auctionMetrics = nil
}

func newAuctionMetrics(registerer prometheus.Registerer, cfg Config) *AuctionMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "spotlight"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	windowsCleared := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "spotlight_auction_windows_cleared_total",
			Help:        "Total auction windows cleared per locale/placement pair.",
			ConstLabels: constLabels,
		},
		[]string{"locale", "placement"},
	)

	sessionsSettled := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "spotlight_auction_sessions_settled_total",
			Help:        "Total boost sessions settled by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"outcome"}, // activated | refunded | rolled_over | skipped | failed
	)

	clearDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "spotlight_auction_clear_duration_seconds",
			Help:        "Duration of one clearing pass.",
			Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		windowsCleared,
		sessionsSettled,
		clearDuration,
	)

	return &AuctionMetrics{
		windowsCleared:  windowsCleared,
		sessionsSettled: sessionsSettled,
		clearDuration:   clearDuration,
	}
}

func (m *AuctionMetrics) IncWindowCleared(locale, placement string) {
	if m == nil {
		return
	}
	m.windowsCleared.WithLabelValues(locale, placement).Inc()
}

func (m *AuctionMetrics) IncSessionSettled(outcome string) {
	if m == nil {
		return
	}
	m.sessionsSettled.WithLabelValues(outcome).Inc()
}

func (m *AuctionMetrics) ObserveClearDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.clearDuration.Observe(d.Seconds())
}
