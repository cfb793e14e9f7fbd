package config

import (
	"time"
)

const (
	storageBackendEnv = "STORAGE_BACKEND"
	sqlitePathEnv     = "SQLITE_PATH"
	indexTTLEnv       = "INDEX_TTL"
	sessionTTLEnv     = "SESSION_TTL"

	defaultIndexTTL   = 48 * time.Hour
	defaultSessionTTL = 30 * 24 * time.Hour
)

type StorageBackend string

const (
	StorageRedis  StorageBackend = "redis"
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
)

type StorageConfig struct {
	Backend    StorageBackend
	SQLitePath string
	IndexTTL   time.Duration
	SessionTTL time.Duration
}

func LoadStorageConfig() (*StorageConfig, error) {
	indexTTL, err := getDurationOrDefault(indexTTLEnv, defaultIndexTTL)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getDurationOrDefault(sessionTTLEnv, defaultSessionTTL)
	if err != nil {
		return nil, err
	}

	return &StorageConfig{
		Backend:    StorageBackend(getEnvOrDefault(storageBackendEnv, string(StorageRedis))),
		SQLitePath: getEnvOrDefault(sqlitePathEnv, "notification-scheduler.db"),
		IndexTTL:   indexTTL,
		SessionTTL: sessionTTL,
	}, nil
}

func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case StorageRedis, StorageMemory:
		return nil
	case StorageSQLite:
		if c.SQLitePath == "" {
			return ErrSQLitePathMissing
		}
		return nil
	default:
		return ErrInvalidStorageBackend
	}
}
