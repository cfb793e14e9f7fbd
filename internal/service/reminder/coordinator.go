// Package reminder decides which treatment reminders are scheduled on the
// platform, keeps today's index in step with them and reconciles the two.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/observability/metrics"
	"github.com/hydracat/notification-scheduler/internal/observability/tracing"
	"github.com/hydracat/notification-scheduler/internal/service/content"
)

// Dependencies are everything a Coordinator reads or writes. Session identifies
// whose reminders are managed; every other field is shared infrastructure.
type Dependencies struct {
	Session   domain.Session
	Schedules domain.ScheduleProvider
	Gateway   domain.NotificationGateway
	Index     domain.NotificationIndexRepository
	Localizer content.Localizer
	Clock     domain.Clock
	Metrics   *metrics.ReminderMetrics
}

// Coordinator manages the reminders of one session. Operations are meant to be
// called one at a time; concurrent calls on the same session race on the index.
type Coordinator struct {
	session   domain.Session
	schedules domain.ScheduleProvider
	gateway   domain.NotificationGateway
	index     domain.NotificationIndexRepository
	localizer content.Localizer
	clock     domain.Clock
	metrics   *metrics.ReminderMetrics
}

func New(deps Dependencies) *Coordinator {
	clock := deps.Clock
	if clock == nil {
		clock = domain.SystemClock{}
	}

	return &Coordinator{
		session:   deps.Session,
		schedules: deps.Schedules,
		gateway:   deps.Gateway,
		index:     deps.Index,
		localizer: deps.Localizer,
		clock:     clock,
		metrics:   deps.Metrics,
	}
}

func (c *Coordinator) Session() domain.Session {
	return c.session
}

// now returns the current instant in the session's time zone.
func (c *Coordinator) now() time.Time {
	return c.clock.Now().In(c.session.Loc())
}

// ScheduleAllForToday schedules the initial reminders of today and the next two
// days, plus today's follow-ups. It never returns partial failures as an error;
// they are listed in the result.
func (c *Coordinator) ScheduleAllForToday(ctx context.Context) *domain.SchedulingResult {
	ctx, span := tracing.StartOperationSpan(ctx, OperationSchedule, c.session.UserID, c.session.PetID)
	defer span.End()
	start := time.Now()

	result := &domain.SchedulingResult{Errors: []string{}}
	if !c.session.Valid() {
		result.Reason = domain.ReasonNoUserOrPet
		tracing.RecordShortCircuit(span, string(result.Reason))
		return result
	}

	active, err := c.schedules.ActiveSchedules(ctx, c.session.UserID, c.session.PetID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch active schedules",
			slog.String("user_id", c.session.UserID),
			slog.String("pet_id", c.session.PetID),
			slog.String("error", err.Error()),
		)
		result.Reason = domain.ReasonSchedulesUnavailable
		result.Errors = append(result.Errors, fmt.Sprintf("fetch schedules: %v", err))
		tracing.RecordError(span, err)
		return result
	}

	c.scheduleWindow(ctx, result, active, nil)

	tracing.RecordSchedulingResult(span, result.Scheduled, result.Immediate, result.Missed, len(result.Errors))
	if c.metrics != nil {
		c.metrics.RecordOperationDuration(ctx, OperationSchedule, time.Since(start))
	}

	slog.InfoContext(ctx, "scheduling pass completed",
		slog.String("user_id", c.session.UserID),
		slog.String("pet_id", c.session.PetID),
		slog.Int("active_schedules", len(active)),
		slog.Int("scheduled", result.Scheduled),
		slog.Int("immediate", result.Immediate),
		slog.Int("missed", result.Missed),
		slog.Int("error_count", len(result.Errors)),
	)

	return result
}

// scheduleWindow runs the multi-day pass over schedules. When onlySlots is not
// nil, bundles for other time slots are skipped.
func (c *Coordinator) scheduleWindow(ctx context.Context, result *domain.SchedulingResult, schedules []domain.Schedule, onlySlots map[domain.TimeSlot]struct{}) {
	now := c.now()
	today := domain.StartOfDay(now)

	for offset := 0; offset < WindowDays; offset++ {
		day := domain.AddDays(today, offset)

		dayCtx, span := tracing.StartDaySpan(ctx, day, offset)
		dayResult := &domain.SchedulingResult{}

		for _, b := range groupBundles(schedules, day) {
			if onlySlots != nil {
				if _, ok := onlySlots[b.slot]; !ok {
					continue
				}
			}
			c.scheduleBundle(dayCtx, dayResult, b, day, offset == 0, now)
		}

		tracing.RecordSchedulingResult(span, dayResult.Scheduled, dayResult.Immediate, dayResult.Missed, len(dayResult.Errors))
		span.End()

		result.Merge(dayResult)
	}
}

// scheduleBundle schedules the initial reminder of one slot and, for today, its follow-up.
func (c *Coordinator) scheduleBundle(ctx context.Context, result *domain.SchedulingResult, b bundle, day time.Time, isToday bool, now time.Time) {
	target := b.slot.On(day)

	d := c.scheduleSlot(ctx, result, b, day, domain.KindInitial, target, isToday, now)
	if !isToday || d == decisionMissed {
		return
	}

	c.scheduleSlot(ctx, result, b, day, domain.KindFollowup, target.Add(FollowupOffset), isToday, now)
}

func (c *Coordinator) scheduleSlot(ctx context.Context, result *domain.SchedulingResult, b bundle, day time.Time, kind domain.NotificationKind, target time.Time, isToday bool, now time.Time) decision {
	d, fireAt := evaluateGrace(target, now)
	if d == decisionMissed {
		result.Missed++
		c.recordNotification(ctx, kind, outcomeMissed)
		slog.DebugContext(ctx, "reminder slot missed",
			slog.String("date", domain.DateKey(day)),
			slog.String("time_slot", b.slot.String()),
			slog.String("kind", kind.String()),
			slog.Time("target", target),
		)
		return d
	}

	req := c.buildRequest(b, day, kind, fireAt)
	if err := c.gateway.ScheduleAt(ctx, req); err != nil {
		slog.WarnContext(ctx, "failed to schedule reminder",
			slog.Int("notification_id", int(req.ID)),
			slog.String("date", domain.DateKey(day)),
			slog.String("time_slot", b.slot.String()),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		result.Errors = append(result.Errors, fmt.Sprintf("schedule %s %s %s: %v", domain.DateKey(day), b.slot, kind, err))
		c.recordNotification(ctx, kind, outcomeFailed)
		return d
	}

	if d == decisionImmediate {
		result.Immediate++
		c.recordNotification(ctx, kind, outcomeImmediate)
	} else {
		result.Scheduled++
		c.recordNotification(ctx, kind, outcomeScheduled)
	}

	if isToday {
		c.indexBundle(ctx, result, b, day, kind, req.ID)
	}

	return d
}

// indexBundle records one index entry per schedule in the bundle, all sharing the
// bundle's notification id.
func (c *Coordinator) indexBundle(ctx context.Context, result *domain.SchedulingResult, b bundle, day time.Time, kind domain.NotificationKind, id int32) {
	for _, s := range b.schedules {
		entry := domain.ScheduledNotificationEntry{
			NotificationID: id,
			ScheduleID:     s.ID,
			TreatmentType:  s.TreatmentType,
			TimeSlot:       b.slot,
			Kind:           kind,
		}
		if err := c.index.PutEntry(ctx, c.session.UserID, c.session.PetID, day, entry); err != nil {
			slog.WarnContext(ctx, "failed to record index entry",
				slog.Int("notification_id", int(id)),
				slog.String("schedule_id", s.ID),
				slog.String("error", err.Error()),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("index %s %s %s: %v", s.ID, b.slot, kind, err))
		}
	}
}

func (c *Coordinator) recordNotification(ctx context.Context, kind domain.NotificationKind, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordNotification(ctx, kind.String(), outcome)
	}
}

func (c *Coordinator) recordDuration(ctx context.Context, operation string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordOperationDuration(ctx, operation, time.Since(start))
	}
}

func (c *Coordinator) recordCancellation(ctx context.Context, operation, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordCancellation(ctx, operation, outcome)
	}
}
