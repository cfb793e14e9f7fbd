package config

import (
	"log/slog"
	"os"

	"github.com/hydracat/notification-scheduler/internal/observability/logging"
)

type Config struct {
	Port      string
	LogLevel  slog.Level
	Redis     *RedisConfig
	Storage   *StorageConfig
	Gateway   *GatewayConfig
	Schedules *SchedulesConfig
	Reminder  *ReminderConfig
	Rollover  *RolloverConfig
}

func Load() (*Config, error) {
	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	storageConfig, err := LoadStorageConfig()
	if err != nil {
		return nil, err
	}

	schedulesConfig, err := LoadSchedulesConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		LogLevel:  logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		Redis:     redisConfig,
		Storage:   storageConfig,
		Gateway:   LoadGatewayConfig(),
		Schedules: schedulesConfig,
		Reminder:  LoadReminderConfig(),
		Rollover:  LoadRolloverConfig(),
	}, nil
}
