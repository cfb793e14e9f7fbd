package domain

import (
	"context"
	"time"
)

// NotificationRequest is one schedule-at-time call to the platform.
type NotificationRequest struct {
	ID          int32
	Title       string
	Body        string
	ScheduledAt time.Time
	Channel     string
	Payload     NotificationPayload
	GroupID     string
	ThreadID    string
}

// PendingNotification is what the platform reports as still waiting to fire.
// Payload is the raw JSON the notification was scheduled with.
type PendingNotification struct {
	ID      int32
	Payload string
}

//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=domain

// NotificationGateway is the platform notification API. Scheduling an id that is
// already pending replaces the pending notification.
type NotificationGateway interface {
	ScheduleAt(ctx context.Context, req *NotificationRequest) error
	Cancel(ctx context.Context, id int32) error
	CancelGroupSummary(ctx context.Context, groupID string) error
	PendingNotificationRequests(ctx context.Context) ([]PendingNotification, error)
}
