package config

import (
	"os"
)

type GatewayType string

const (
	GatewayMemory GatewayType = "memory"
	GatewayTasks  GatewayType = "tasks"
)

type GatewayConfig struct {
	Type      GatewayType
	TasksURL  string
	QueueName string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

func LoadGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		Type:      GatewayType(getEnvOrDefault("NOTIFICATION_GATEWAY", string(GatewayTasks))),
		TasksURL:  os.Getenv("TASKS_URL"),
		QueueName: getEnvOrDefault("TASK_QUEUE_NAME", "default"),

		GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
		GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
		GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
		GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

		MaxRetries: getIntOrDefault("TASK_QUEUE_MAX_RETRIES", 3),
	}
}
