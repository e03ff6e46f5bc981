package metrics

// Config carries constant labels attached to every metric.
type Config struct {
	ServiceName string
	Environment string
}
