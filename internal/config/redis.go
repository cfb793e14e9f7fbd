package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	redisURLEnv         = "REDIS_URL"
	redisAddrEnv        = "REDIS_ADDR"
	redisPasswordEnv    = "REDIS_PASSWORD"
	redisDBEnv          = "REDIS_DB"
	redisTLSEnv         = "REDIS_TLS"
	redisDialTimeoutEnv = "REDIS_DIAL_TIMEOUT"
	redisPoolSizeEnv    = "REDIS_POOL_SIZE"

	defaultRedisAddr        = "localhost:6379"
	defaultRedisDialTimeout = 5 * time.Second
)

// RedisConfig backs the redis storage backend and the schedule cache.
// REDIS_URL (redis:// or rediss://) takes precedence over the discrete variables.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TLS         bool
	DialTimeout time.Duration
	// PoolSize of zero keeps the go-redis default.
	PoolSize int
}

func LoadRedisConfig() (*RedisConfig, error) {
	dialTimeout, err := getDurationOrDefault(redisDialTimeoutEnv, defaultRedisDialTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &RedisConfig{
		Addr:        getEnvOrDefault(redisAddrEnv, defaultRedisAddr),
		Password:    os.Getenv(redisPasswordEnv),
		TLS:         os.Getenv(redisTLSEnv) == "true",
		DialTimeout: dialTimeout,
		PoolSize:    getIntOrDefault(redisPoolSizeEnv, 0),
	}

	if raw := os.Getenv(redisDBEnv); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return nil, ErrInvalidRedisDB
		}
		cfg.DB = db
	}

	if raw := os.Getenv(redisURLEnv); raw != "" {
		if err := cfg.applyURL(raw); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *RedisConfig) applyURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ErrInvalidRedisURL
	}

	switch u.Scheme {
	case "redis":
		c.TLS = false
	case "rediss":
		c.TLS = true
	default:
		return ErrInvalidRedisURL
	}

	c.Addr = u.Host
	if pw, ok := u.User.Password(); ok {
		c.Password = pw
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		db, err := strconv.Atoi(path)
		if err != nil || db < 0 {
			return ErrInvalidRedisDB
		}
		c.DB = db
	}
	return nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
