//go:build gcloud

package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/hydracat/notification-scheduler/internal/domain"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var _ domain.NotificationGateway = (*CloudTasksGateway)(nil)

type CloudTasksGateway struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	maxRetries int
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksGateway(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksGateway, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &CloudTasksGateway{
		client:     client,
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (g *CloudTasksGateway) queuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", g.projectID, g.locationID, g.queueID)
}

func (g *CloudTasksGateway) taskPath(id int32) string {
	return fmt.Sprintf("%s/tasks/%s", g.queuePath(), taskName(id))
}

func (g *CloudTasksGateway) ScheduleAt(ctx context.Context, req *domain.NotificationRequest) error {
	task, err := newNotificationTask(req)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal notification task: %w", err)
	}

	cloudTask := &taskspb.Task{
		Name: g.taskPath(req.ID),
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        g.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
				Body: payload,
			},
		},
	}
	if !req.ScheduledAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(req.ScheduledAt)
	}

	createReq := &taskspb.CreateTaskRequest{
		Parent: g.queuePath(),
		Task:   cloudTask,
	}

	return withRetry(ctx, g.maxRetries, "register task", req.ID, func(ctx context.Context) error {
		return g.createTask(ctx, createReq, req.ID)
	})
}

func (g *CloudTasksGateway) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, id int32) error {
	slog.DebugContext(ctx, "registering notification to Cloud Tasks",
		slog.String("queue_path", req.Parent),
		slog.Int("notification_id", int(id)),
	)

	createdTask, err := g.client.CreateTask(ctx, req)
	if status.Code(err) == codes.AlreadyExists {
		// Same id already pending: replace it.
		if err := g.deleteTask(ctx, id); err != nil {
			return err
		}
		createdTask, err = g.client.CreateTask(ctx, req)
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to create cloud task",
			slog.Int("notification_id", int(id)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.InfoContext(ctx, "notification task registered to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.Int("notification_id", int(id)),
	)
	return nil
}

func (g *CloudTasksGateway) Cancel(ctx context.Context, id int32) error {
	return withRetry(ctx, g.maxRetries, "delete task", id, func(ctx context.Context) error {
		return g.deleteTask(ctx, id)
	})
}

func (g *CloudTasksGateway) deleteTask(ctx context.Context, id int32) error {
	taskPath := g.taskPath(id)
	slog.DebugContext(ctx, "deleting task from Cloud Tasks",
		slog.String("task_path", taskPath),
		slog.Int("notification_id", int(id)),
	)

	err := g.client.DeleteTask(ctx, &taskspb.DeleteTaskRequest{Name: taskPath})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			slog.InfoContext(ctx, "task not found in Cloud Tasks (may have been processed)",
				slog.Int("notification_id", int(id)),
			)
			return nil
		}

		slog.WarnContext(ctx, "failed to delete cloud task",
			slog.Int("notification_id", int(id)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete cloud task: %w", err)
	}

	slog.InfoContext(ctx, "task deleted from Cloud Tasks",
		slog.Int("notification_id", int(id)),
	)
	return nil
}

// CancelGroupSummary is a no-op: grouped summaries only exist on the device.
func (g *CloudTasksGateway) CancelGroupSummary(ctx context.Context, groupID string) error {
	slog.DebugContext(ctx, "group summary cancel not supported by Cloud Tasks",
		slog.String("group_id", groupID),
	)
	return nil
}

func (g *CloudTasksGateway) PendingNotificationRequests(ctx context.Context) ([]domain.PendingNotification, error) {
	it := g.client.ListTasks(ctx, &taskspb.ListTasksRequest{
		Parent:       g.queuePath(),
		ResponseView: taskspb.Task_FULL,
	})

	var out []domain.PendingNotification
	for {
		t, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list cloud tasks: %w", err)
		}

		httpReq := t.GetHttpRequest()
		if httpReq == nil {
			continue
		}
		task, err := decodeNotificationTask(httpReq.GetBody())
		if err != nil {
			slog.WarnContext(ctx, "skipping foreign task",
				slog.String("task_name", t.GetName()),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, task.pending())
	}
	return out, nil
}

func (g *CloudTasksGateway) Close() error {
	return g.client.Close()
}
