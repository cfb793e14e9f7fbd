//go:build gcloud

package config

import (
	"errors"
	"fmt"
)

// Validate requires the Cloud Tasks coordinates unless the in-memory gateway is selected.
func (c *GatewayConfig) Validate() error {
	switch c.Type {
	case GatewayMemory:
		return nil
	case GatewayTasks:
	default:
		return ErrInvalidGatewayType
	}

	required := []struct {
		env   string
		value string
	}{
		{"GCLOUD_PROJECT_ID", c.GCloudProjectID},
		{"GCLOUD_LOCATION_ID", c.GCloudLocationID},
		{"GCLOUD_QUEUE_ID", c.GCloudQueueID},
		{"GCLOUD_TARGET_URL", c.GCloudTargetURL},
	}

	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.env))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cloud tasks gateway: %w", errors.Join(errs...))
	}
	return nil
}
