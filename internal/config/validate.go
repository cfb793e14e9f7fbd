package config

import (
	"errors"
	"fmt"
)

// ValidateForRun checks everything the server needs and reports every problem at once.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if cfg.Storage.Backend == StorageRedis {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, v := range []interface{ Validate() error }{
		cfg.Storage,
		cfg.Gateway,
		cfg.Schedules,
		cfg.Reminder,
		cfg.Rollover,
	} {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return nil
}
