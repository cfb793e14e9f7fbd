package config

import (
	"os"
	"time"
)

const (
	defaultScheduleCacheTTL    = 5 * time.Minute
	defaultSchedulesAPITimeout = 10 * time.Second
)

type SchedulesConfig struct {
	URL          string
	Timeout      time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
	// StaticFile serves schedules from a JSON file instead of the API.
	StaticFile string
}

func LoadSchedulesConfig() (*SchedulesConfig, error) {
	ttl, err := getDurationOrDefault("SCHEDULE_CACHE_TTL", defaultScheduleCacheTTL)
	if err != nil {
		return nil, err
	}

	timeout, err := getDurationOrDefault("SCHEDULES_API_TIMEOUT", defaultSchedulesAPITimeout)
	if err != nil {
		return nil, err
	}

	return &SchedulesConfig{
		URL:          os.Getenv("SCHEDULES_API_URL"),
		Timeout:      timeout,
		CacheEnabled: os.Getenv("SCHEDULE_CACHE_DISABLED") != "true",
		CacheTTL:     ttl,
		StaticFile:   os.Getenv("SCHEDULES_FILE"),
	}, nil
}

func (c *SchedulesConfig) Validate() error {
	if c.URL == "" && c.StaticFile == "" {
		return ErrSchedulesURLMissing
	}
	return nil
}
