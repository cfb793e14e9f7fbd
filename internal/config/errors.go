package config

import "errors"

var (
	ErrRedisAddrMissing      = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB        = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidRedisURL       = errors.New("REDIS_URL must be a redis:// or rediss:// URL")
	ErrInvalidStorageBackend = errors.New("STORAGE_BACKEND must be one of redis, sqlite, memory")
	ErrSQLitePathMissing     = errors.New("SQLITE_PATH is required for the sqlite backend")
	ErrInvalidGatewayType    = errors.New("NOTIFICATION_GATEWAY must be one of memory, tasks")
	ErrTasksURLMissing       = errors.New("TASKS_URL is required for the tasks gateway")
	ErrSchedulesURLMissing   = errors.New("SCHEDULES_API_URL is required")
	ErrInvalidTimeZone       = errors.New("DEFAULT_TIME_ZONE must be an IANA time zone")
	ErrInvalidRolloverCron   = errors.New("ROLLOVER_CRON must be a valid cron expression")
	ErrInvalidDuration       = errors.New("invalid duration")
)
