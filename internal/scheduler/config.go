package scheduler

import "time"

// Config controls the recurring clearing loop.
type Config struct {
	PollInterval time.Duration
	ClearTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: time.Minute,
		ClearTimeout: 30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.ClearTimeout <= 0 {
		c.ClearTimeout = defaults.ClearTimeout
	}
	return c
}
