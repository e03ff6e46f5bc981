package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration for the spotlight service.
type Config struct {
	Environment string
	HTTPAddr    string
	DatabaseDSN string

	SchedulerEnabled      bool
	SchedulerPollInterval time.Duration

	TracingEnabled       bool
	TracingEndpoint      string
	TracingProtocol      string
	TracingSamplingRatio float64
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Load parses configuration from the process environment, applying defaults
// for optional values and rejecting malformed ones.
func Load() (Config, error) {
	cfg := Config{
		Environment:           "development",
		HTTPAddr:              ":8080",
		DatabaseDSN:           "file:spotlight.db?_foreign_keys=on",
		SchedulerEnabled:      true,
		SchedulerPollInterval: time.Minute,
		TracingProtocol:       "grpc",
		TracingSamplingRatio:  0.1,
	}

	invalid := make([]string, 0, 2)

	if env := strings.TrimSpace(os.Getenv("SPOTLIGHT_ENV")); env != "" {
		cfg.Environment = env
	}
	if addr := strings.TrimSpace(os.Getenv("SPOTLIGHT_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}
	if dsn := strings.TrimSpace(os.Getenv("SPOTLIGHT_DATABASE_DSN")); dsn != "" {
		cfg.DatabaseDSN = dsn
	}

	if value := strings.TrimSpace(os.Getenv("SPOTLIGHT_SCHEDULER_ENABLED")); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "SPOTLIGHT_SCHEDULER_ENABLED")
		} else {
			cfg.SchedulerEnabled = enabled
		}
	}
	if value := strings.TrimSpace(os.Getenv("SPOTLIGHT_SCHEDULER_POLL_INTERVAL")); value != "" {
		interval, err := time.ParseDuration(value)
		if err != nil || interval <= 0 {
			invalid = append(invalid, "SPOTLIGHT_SCHEDULER_POLL_INTERVAL")
		} else {
			cfg.SchedulerPollInterval = interval
		}
	}

	if value := strings.TrimSpace(os.Getenv("SPOTLIGHT_TRACING_ENABLED")); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "SPOTLIGHT_TRACING_ENABLED")
		} else {
			cfg.TracingEnabled = enabled
		}
	}
	if endpoint := strings.TrimSpace(os.Getenv("SPOTLIGHT_TRACING_ENDPOINT")); endpoint != "" {
		cfg.TracingEndpoint = endpoint
	}
	if protocol := strings.TrimSpace(os.Getenv("SPOTLIGHT_TRACING_PROTOCOL")); protocol != "" {
		cfg.TracingProtocol = protocol
	}
	if value := strings.TrimSpace(os.Getenv("SPOTLIGHT_TRACING_SAMPLING_RATIO")); value != "" {
		ratio, err := strconv.ParseFloat(value, 64)
		if err != nil || ratio < 0 || ratio > 1 {
			invalid = append(invalid, "SPOTLIGHT_TRACING_SAMPLING_RATIO")
		} else {
			cfg.TracingSamplingRatio = ratio
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}
