//go:build !gcloud

package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/hydracat/notification-scheduler/internal/config"
	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/infra/taskqueue"
	"github.com/hydracat/notification-scheduler/internal/observability"
	"github.com/hydracat/notification-scheduler/internal/observability/logging"
)

func newGateway(_ context.Context, cfg *config.Config) (domain.NotificationGateway, func() error, error) {
	if cfg.Gateway.Type == config.GatewayMemory {
		slog.Warn("using in-memory notification gateway, nothing will be delivered")
		return taskqueue.NewMemoryGateway(), nil, nil
	}

	gw := taskqueue.NewTasksGateway(taskqueue.TasksConfig{
		BaseURL:    cfg.Gateway.TasksURL,
		QueueName:  cfg.Gateway.QueueName,
		MaxRetries: cfg.Gateway.MaxRetries,
	})

	slog.Info("notification gateway initialized",
		slog.String("type", "tasks"),
		slog.String("url", cfg.Gateway.TasksURL),
		slog.String("queue", cfg.Gateway.QueueName),
	)

	return gw, nil, nil
}

func initObservability(ctx context.Context, version string) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "notification-scheduler"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: version,
		},
		Environment:   env,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("notification-scheduler"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
