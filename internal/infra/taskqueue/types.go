package taskqueue

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

// notificationTask is the body every queued task carries to the push sender.
type notificationTask struct {
	ID          int32  `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Channel     string `json:"channel"`
	GroupID     string `json:"group_id,omitempty"`
	ThreadID    string `json:"thread_id,omitempty"`
	ScheduledAt string `json:"scheduled_at"`
	Payload     string `json:"payload"`
}

func newNotificationTask(req *domain.NotificationRequest) (*notificationTask, error) {
	payload, err := req.Payload.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification payload: %w", err)
	}
	return &notificationTask{
		ID:          req.ID,
		Title:       req.Title,
		Body:        req.Body,
		Channel:     req.Channel,
		GroupID:     req.GroupID,
		ThreadID:    req.ThreadID,
		ScheduledAt: req.ScheduledAt.UTC().Format(time.RFC3339),
		Payload:     payload,
	}, nil
}

func (t *notificationTask) pending() domain.PendingNotification {
	return domain.PendingNotification{ID: t.ID, Payload: t.Payload}
}

func decodeNotificationTask(body []byte) (*notificationTask, error) {
	var task notificationTask
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to decode notification task: %w", err)
	}
	return &task, nil
}

// taskName is the queue-side task name for a notification id. Reusing the
// name is what gives scheduling replace semantics.
func taskName(id int32) string {
	return "notification-" + strconv.FormatInt(int64(id), 10)
}

type TasksRequest struct {
	Task Task `json:"task"`
}

type Task struct {
	Name         string          `json:"name,omitempty"`
	HTTPRequest  TaskHTTPRequest `json:"httpRequest"`
	ScheduleTime string          `json:"scheduleTime,omitempty"`
}

type TaskHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type TaskResponse struct {
	Name         string          `json:"name"`
	ScheduleTime string          `json:"scheduleTime"`
	CreateTime   string          `json:"createTime"`
	HTTPRequest  TaskHTTPRequest `json:"httpRequest"`
}

type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}
