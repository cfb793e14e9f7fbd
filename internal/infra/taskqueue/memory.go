package taskqueue

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

// MemoryGateway keeps pending notifications in process. A notification whose
// time has passed counts as delivered and drops out of the pending list.
type MemoryGateway struct {
	mu             sync.Mutex
	pending        map[int32]*domain.NotificationRequest
	canceledGroups map[string]int
	now            func() time.Time
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		pending:        make(map[int32]*domain.NotificationRequest),
		canceledGroups: make(map[string]int),
		now:            time.Now,
	}
}

// WithClock replaces the clock used to decide delivery.
func (g *MemoryGateway) WithClock(now func() time.Time) *MemoryGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
	return g
}

func (g *MemoryGateway) ScheduleAt(ctx context.Context, req *domain.NotificationRequest) error {
	if _, err := req.Payload.Encode(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	cp := *req
	g.pending[req.ID] = &cp

	slog.DebugContext(ctx, "notification scheduled in memory",
		slog.Int("notification_id", int(req.ID)),
		slog.Time("scheduled_at", req.ScheduledAt),
	)
	return nil
}

func (g *MemoryGateway) Cancel(ctx context.Context, id int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.pending, id)
	return nil
}

func (g *MemoryGateway) CancelGroupSummary(ctx context.Context, groupID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.canceledGroups[groupID]++
	return nil
}

func (g *MemoryGateway) PendingNotificationRequests(ctx context.Context) ([]domain.PendingNotification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dropDelivered()

	out := make([]domain.PendingNotification, 0, len(g.pending))
	for _, req := range g.pending {
		payload, err := req.Payload.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PendingNotification{ID: req.ID, Payload: payload})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Scheduled returns a copy of the pending request for id.
func (g *MemoryGateway) Scheduled(id int32) (domain.NotificationRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	req, ok := g.pending[id]
	if !ok {
		return domain.NotificationRequest{}, false
	}
	return *req, true
}

// GroupSummaryCancels reports how many times the group summary for groupID was cancelled.
func (g *MemoryGateway) GroupSummaryCancels(groupID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canceledGroups[groupID]
}

func (g *MemoryGateway) dropDelivered() {
	now := g.now()
	for id, req := range g.pending {
		if !req.ScheduledAt.After(now) {
			delete(g.pending, id)
		}
	}
}
