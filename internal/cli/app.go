package cli

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/hydracat/notification-scheduler/internal/config"
	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/handler"
	"github.com/hydracat/notification-scheduler/internal/health"
	"github.com/hydracat/notification-scheduler/internal/infra/indexstore"
	"github.com/hydracat/notification-scheduler/internal/infra/kvstore"
	"github.com/hydracat/notification-scheduler/internal/infra/runrecorder"
	"github.com/hydracat/notification-scheduler/internal/infra/schedules"
	"github.com/hydracat/notification-scheduler/internal/infra/sessionstore"
	"github.com/hydracat/notification-scheduler/internal/observability/metrics"
	"github.com/hydracat/notification-scheduler/internal/service/content"
	"github.com/hydracat/notification-scheduler/internal/service/reminder"
)

// app is the dependency graph shared by every command.
type app struct {
	cfg         *config.Config
	sessions    domain.SessionRepository
	factory     *reminder.Factory
	recorder    domain.RunRecorder
	invalidator handler.ScheduleCacheInvalidator
	healthDeps  []health.Dependency
	closers     []func() error
}

type appOptions struct {
	// instrument adds redis tracing and metrics; only the server exports them.
	instrument bool
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	a := &app{cfg: cfg}
	if err := a.build(ctx, opts); err != nil {
		if cerr := a.Close(); cerr != nil {
			slog.Warn("failed to release resources", slog.String("error", cerr.Error()))
		}
		return nil, err
	}
	return a, nil
}

func (a *app) build(ctx context.Context, opts appOptions) error {
	cfg := a.cfg

	store, redisClient, err := a.openStore(ctx, opts)
	if err != nil {
		return err
	}

	provider, err := a.scheduleProvider(redisClient)
	if err != nil {
		return err
	}

	gateway, cleanup, err := newGateway(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize notification gateway: %w", err)
	}
	if cleanup != nil {
		a.closers = append(a.closers, cleanup)
	}

	localizer, err := content.NewCatalogLocalizer()
	if err != nil {
		return fmt.Errorf("failed to load message catalog: %w", err)
	}

	reminderMetrics, err := metrics.NewReminderMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize reminder metrics: %w", err)
	}

	a.recorder, err = runrecorder.NewRecorder(ctx, runrecorder.LoadConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize run recorder: %w", err)
	}
	a.closers = append(a.closers, a.recorder.Close)

	a.sessions = sessionstore.NewSessionRepository(store, cfg.Storage.SessionTTL)
	a.factory = reminder.NewFactory(reminder.Dependencies{
		Schedules: provider,
		Gateway:   gateway,
		Index:     indexstore.NewNotificationIndexRepository(store, cfg.Storage.IndexTTL),
		Localizer: localizer,
		Metrics:   reminderMetrics,
	})

	return nil
}

func (a *app) openStore(ctx context.Context, opts appOptions) (kvstore.Store, *redis.Client, error) {
	switch a.cfg.Storage.Backend {
	case config.StorageMemory:
		slog.Warn("using in-memory storage, index and sessions are lost on exit")
		return kvstore.NewMemoryStore(), nil, nil

	case config.StorageSQLite:
		store, err := kvstore.OpenSQLiteStore(a.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, store.Close)
		a.healthDeps = append(a.healthDeps, health.Dependency{Name: "sqlite", Ping: store.Ping})
		slog.Info("sqlite storage opened", slog.String("path", a.cfg.Storage.SQLitePath))
		return store, nil, nil

	default:
		client, err := a.connectRedis(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewRedisStore(client), client, nil
	}
}

func (a *app) connectRedis(ctx context.Context, opts appOptions) (*redis.Client, error) {
	redisOpts := &redis.Options{
		Addr:        a.cfg.Redis.Addr,
		Password:    a.cfg.Redis.Password,
		DB:          a.cfg.Redis.DB,
		DialTimeout: a.cfg.Redis.DialTimeout,
		PoolSize:    a.cfg.Redis.PoolSize,
	}
	if a.cfg.Redis.TLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOpts)
	a.closers = append(a.closers, client.Close)

	if opts.instrument {
		if err := redisotel.InstrumentTracing(client); err != nil {
			slog.Error("failed to instrument redis tracing",
				slog.String("event", "redis.otel.tracing.fail"),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		if err := redisotel.InstrumentMetrics(client); err != nil {
			slog.Error("failed to instrument redis metrics",
				slog.String("event", "redis.otel.metrics.fail"),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
	}

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", kvstore.ErrStoreConnection, err)
	}

	slog.Info("redis connected", slog.String("addr", a.cfg.Redis.Addr))
	a.healthDeps = append(a.healthDeps, health.RedisDependency(client))
	return client, nil
}

func (a *app) scheduleProvider(redisClient *redis.Client) (domain.ScheduleProvider, error) {
	cfg := a.cfg.Schedules

	if cfg.StaticFile != "" {
		provider, err := schedules.LoadStaticProvider(cfg.StaticFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load schedules file: %w", err)
		}
		slog.Info("serving schedules from file", slog.String("path", cfg.StaticFile))
		return provider, nil
	}

	client := schedules.NewClient(cfg.URL, schedules.WithTimeout(cfg.Timeout))
	if !cfg.CacheEnabled || redisClient == nil {
		return client, nil
	}

	cached := schedules.NewCachedProvider(client, redisClient, cfg.CacheTTL)
	a.invalidator = cached
	slog.Info("schedule cache enabled", slog.Duration("ttl", cfg.CacheTTL))
	return cached, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
