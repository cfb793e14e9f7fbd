//go:build gcloud

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

func newGateway(ctx context.Context, cfg *config.Config) (domain.NotificationGateway, func() error, error) {
	if cfg.Gateway.Type == config.GatewayMemory {
		slog.Warn("using in-memory notification gateway, nothing will be delivered")
		return taskqueue.NewMemoryGateway(), nil, nil
	}

	gw, err := taskqueue.NewCloudTasksGateway(ctx, taskqueue.CloudTasksConfig{
		ProjectID:  cfg.Gateway.GCloudProjectID,
		LocationID: cfg.Gateway.GCloudLocationID,
		QueueID:    cfg.Gateway.GCloudQueueID,
		TargetURL:  cfg.Gateway.GCloudTargetURL,
		MaxRetries: cfg.Gateway.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("notification gateway initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Gateway.GCloudProjectID),
		slog.String("location", cfg.Gateway.GCloudLocationID),
		slog.String("queue", cfg.Gateway.GCloudQueueID),
	)

	cleanup := func() error {
		if err := gw.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))
			return err
		}
		return nil
	}

	return gw, cleanup, nil
}

func initObservability(ctx context.Context, version string) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "notification-scheduler"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("notification-scheduler"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
