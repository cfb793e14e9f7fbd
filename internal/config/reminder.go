package config

import (
	"fmt"
	"time"
)

type ReminderConfig struct {
	DefaultTimeZone string
	DefaultLocale   string
}

func LoadReminderConfig() *ReminderConfig {
	return &ReminderConfig{
		DefaultTimeZone: getEnvOrDefault("DEFAULT_TIME_ZONE", "UTC"),
		DefaultLocale:   getEnvOrDefault("DEFAULT_LOCALE", "en"),
	}
}

func (c *ReminderConfig) Validate() error {
	if _, err := time.LoadLocation(c.DefaultTimeZone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeZone, c.DefaultTimeZone)
	}
	return nil
}
