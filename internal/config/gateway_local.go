//go:build !gcloud

package config

func (c *GatewayConfig) Validate() error {
	switch c.Type {
	case GatewayMemory:
		return nil
	case GatewayTasks:
		if c.TasksURL == "" {
			return ErrTasksURLMissing
		}
		return nil
	default:
		return ErrInvalidGatewayType
	}
}
