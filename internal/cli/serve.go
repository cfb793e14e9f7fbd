package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hydracat/notification-scheduler/internal/config"
	"github.com/hydracat/notification-scheduler/internal/handler"
	"github.com/hydracat/notification-scheduler/internal/health"
	"github.com/hydracat/notification-scheduler/internal/observability/logging"
	"github.com/hydracat/notification-scheduler/internal/observability/metrics"
	"github.com/hydracat/notification-scheduler/internal/observability/middleware"
	"github.com/hydracat/notification-scheduler/internal/service/rollover"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the rollover job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), rootOpts.Version)
		},
	}
}

func runServer(parent context.Context, version string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := initObservability(ctx, version)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return err
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return err
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return err
	}

	a, err := newApp(ctx, cfg, appOptions{instrument: true})
	if err != nil {
		slog.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to release resources", slog.String("error", err.Error()))
		}
	}()

	var job *rollover.Job
	if cfg.Rollover.Enabled {
		job = rollover.NewJob(a.sessions, a.factory, a.recorder, cfg.Rollover.Cron)
		if err := job.Start(); err != nil {
			slog.Error("failed to start rollover job", slog.String("error", err.Error()))
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(a, version, httpMetrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("storage", string(cfg.Storage.Backend)),
			slog.String("gateway", string(cfg.Gateway.Type)),
			slog.Bool("rollover_enabled", cfg.Rollover.Enabled),
		)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if job != nil {
			job.Stop(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return err
		}

		slog.Info("server exited properly")
		return nil

	case err := <-serverErr:
		if job != nil {
			job.Stop(context.Background())
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return fmt.Errorf("server exited: %w", err)
	}
}

func newRouter(a *app, version string, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      logging.Module("notification-scheduler"),
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	health.NewChecker(version, a.healthDeps...).Register(r)

	reminderHandler := handler.NewReminderHandler(
		a.factory,
		a.sessions,
		a.recorder,
		a.invalidator,
		handler.Defaults{
			TimeZone: a.cfg.Reminder.DefaultTimeZone,
			Locale:   a.cfg.Reminder.DefaultLocale,
		},
	)
	reminderHandler.Register(r.Group("/api/v1"))

	return r
}
