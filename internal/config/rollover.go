package config

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
)

const defaultRolloverCron = "1 * * * *"

type RolloverConfig struct {
	Enabled bool
	Cron    string
}

func LoadRolloverConfig() *RolloverConfig {
	return &RolloverConfig{
		Enabled: os.Getenv("ROLLOVER_DISABLED") != "true",
		Cron:    getEnvOrDefault("ROLLOVER_CRON", defaultRolloverCron),
	}
}

func (c *RolloverConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.Cron); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRolloverCron, c.Cron, err)
	}
	return nil
}
