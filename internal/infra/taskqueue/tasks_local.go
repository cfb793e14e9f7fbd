//go:build !gcloud

package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

var _ domain.NotificationGateway = (*TasksGateway)(nil)

var errTaskExists = errors.New("task already exists")

// TasksGateway talks to a Cloud Tasks compatible HTTP emulator.
type TasksGateway struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
}

type TasksConfig struct {
	BaseURL    string
	QueueName  string
	MaxRetries int
	Timeout    time.Duration
}

func NewTasksGateway(cfg TasksConfig) *TasksGateway {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TasksGateway{
		baseURL:   cfg.BaseURL,
		queueName: cfg.QueueName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
	}
}

func (g *TasksGateway) queueURL() string {
	if g.queueName != "" && g.queueName != "default" {
		return fmt.Sprintf("%s/tasks/%s", g.baseURL, url.PathEscape(g.queueName))
	}
	return fmt.Sprintf("%s/tasks", g.baseURL)
}

func (g *TasksGateway) ScheduleAt(ctx context.Context, req *domain.NotificationRequest) error {
	task, err := newNotificationTask(req)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal notification task: %w", err)
	}

	tasksReq := TasksRequest{
		Task: Task{
			Name: taskName(req.ID),
			HTTPRequest: TaskHTTPRequest{
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}
	if !req.ScheduledAt.IsZero() {
		tasksReq.Task.ScheduleTime = req.ScheduledAt.UTC().Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(tasksReq)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks request: %w", err)
	}

	return withRetry(ctx, g.maxRetries, "register task", req.ID, func(ctx context.Context) error {
		return g.createTask(ctx, reqBody, req.ID)
	})
}

// createTask replaces a task that is still pending under the same name.
func (g *TasksGateway) createTask(ctx context.Context, reqBody []byte, id int32) error {
	err := g.postTask(ctx, reqBody, id)
	if errors.Is(err, errTaskExists) {
		slog.DebugContext(ctx, "replacing pending task",
			slog.Int("notification_id", int(id)),
		)
		if err := g.deleteTask(ctx, id); err != nil {
			return err
		}
		err = g.postTask(ctx, reqBody, id)
	}
	return err
}

func (g *TasksGateway) postTask(ctx context.Context, reqBody []byte, id int32) error {
	target := g.queueURL()
	slog.DebugContext(ctx, "registering notification to task queue",
		slog.String("url", target),
		slog.Int("notification_id", int(id)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to task queue",
			slog.Int("notification_id", int(id)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		_, _ = io.Copy(io.Discard, resp.Body)
		return errTaskExists
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.WarnContext(ctx, "unexpected status code from task queue",
			slog.Int("notification_id", int(id)),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var taskResp TaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&taskResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	slog.InfoContext(ctx, "notification task registered to task queue",
		slog.String("task_name", taskResp.Name),
		slog.Int("notification_id", int(id)),
		slog.String("schedule_time", taskResp.ScheduleTime),
	)
	return nil
}

func (g *TasksGateway) Cancel(ctx context.Context, id int32) error {
	return withRetry(ctx, g.maxRetries, "delete task", id, func(ctx context.Context) error {
		return g.deleteTask(ctx, id)
	})
}

// deleteTask treats a missing task as already gone.
func (g *TasksGateway) deleteTask(ctx context.Context, id int32) error {
	target := fmt.Sprintf("%s/%s", g.queueURL(), taskName(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		slog.InfoContext(ctx, "task deleted from task queue",
			slog.Int("notification_id", int(id)),
		)
		return nil
	case http.StatusNotFound:
		slog.InfoContext(ctx, "task not found in task queue (may have been processed)",
			slog.Int("notification_id", int(id)),
		)
		return nil
	default:
		slog.WarnContext(ctx, "unexpected status code deleting task",
			slog.Int("notification_id", int(id)),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// CancelGroupSummary is a no-op: grouped summaries only exist on the device.
func (g *TasksGateway) CancelGroupSummary(ctx context.Context, groupID string) error {
	slog.DebugContext(ctx, "group summary cancel not supported by task queue",
		slog.String("group_id", groupID),
	)
	return nil
}

func (g *TasksGateway) PendingNotificationRequests(ctx context.Context) ([]domain.PendingNotification, error) {
	var out []domain.PendingNotification
	err := withRetry(ctx, g.maxRetries, "list tasks", 0, func(ctx context.Context) error {
		pending, err := g.listTasks(ctx)
		if err != nil {
			return err
		}
		out = pending
		return nil
	})
	return out, err
}

func (g *TasksGateway) listTasks(ctx context.Context) ([]domain.PendingNotification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.queueURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var list ListTasksResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := make([]domain.PendingNotification, 0, len(list.Tasks))
	for _, t := range list.Tasks {
		body, err := base64.StdEncoding.DecodeString(t.HTTPRequest.Body)
		if err != nil {
			slog.WarnContext(ctx, "skipping task with undecodable body",
				slog.String("task_name", t.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		task, err := decodeNotificationTask(body)
		if err != nil {
			slog.WarnContext(ctx, "skipping foreign task",
				slog.String("task_name", t.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, task.pending())
	}
	return out, nil
}
