package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/observability/tracing"
	"github.com/hydracat/notification-scheduler/internal/service/slotid"
)

// windowIDs lists every notification id a time slot can occupy in the window:
// today's initial and follow-up, then the initials of the following days.
func (c *Coordinator) windowIDs(slot domain.TimeSlot, today time.Time) []int32 {
	ids := []int32{
		slotid.Generate(c.session.UserID, c.session.PetID, slot, domain.KindInitial, today),
		slotid.Generate(c.session.UserID, c.session.PetID, slot, domain.KindFollowup, today),
	}
	for offset := 1; offset < WindowDays; offset++ {
		ids = append(ids, slotid.Generate(c.session.UserID, c.session.PetID, slot, domain.KindInitial, domain.AddDays(today, offset)))
	}
	return ids
}

// CancelForSchedule cancels every notification of the schedule's time slots across
// the window and drops its index entries. Other active schedules that shared those
// slots are scheduled again, since their bundled notifications were canceled too.
func (c *Coordinator) CancelForSchedule(ctx context.Context, schedule domain.Schedule) *domain.CancellationResult {
	ctx, span := tracing.StartOperationSpan(ctx, OperationCancelSchedule, c.session.UserID, c.session.PetID)
	defer span.End()
	start := time.Now()

	result := &domain.CancellationResult{Errors: []string{}}
	if !c.session.Valid() {
		result.Reason = domain.ReasonNoUserOrPet
		tracing.RecordShortCircuit(span, string(result.Reason))
		return result
	}

	today := domain.StartOfDay(c.now())
	slots := uniqueSlots(schedule.ReminderTimes)

	for _, slot := range slots {
		for _, id := range c.windowIDs(slot, today) {
			c.cancelID(ctx, result, OperationCancelSchedule, id)
		}
	}

	removed, err := c.index.RemoveAllForSchedule(ctx, c.session.UserID, c.session.PetID, today, schedule.ID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("index remove %s: %v", schedule.ID, err))
	}
	result.EntriesRemoved = removed

	if len(slots) > 0 {
		result.Rescheduled = c.rescheduleSharedSlots(ctx, schedule.ID, slots)
		result.Errors = append(result.Errors, result.Rescheduled.Errors...)
	}

	tracing.RecordCancellationResult(span, result.Attempts, result.Canceled, result.EntriesRemoved, len(result.Errors))
	if c.metrics != nil {
		c.metrics.RecordOperationDuration(ctx, OperationCancelSchedule, time.Since(start))
	}

	slog.InfoContext(ctx, "schedule notifications canceled",
		slog.String("user_id", c.session.UserID),
		slog.String("pet_id", c.session.PetID),
		slog.String("schedule_id", schedule.ID),
		slog.Int("attempts", result.Attempts),
		slog.Int("canceled", result.Canceled),
		slog.Int("entries_removed", result.EntriesRemoved),
		slog.Int("error_count", len(result.Errors)),
	)

	return result
}

// rescheduleSharedSlots schedules the given slots again for every active schedule
// other than excludedID.
func (c *Coordinator) rescheduleSharedSlots(ctx context.Context, excludedID string, slots []domain.TimeSlot) *domain.SchedulingResult {
	result := &domain.SchedulingResult{Errors: []string{}}

	active, err := c.schedules.ActiveSchedules(ctx, c.session.UserID, c.session.PetID)
	if err != nil {
		result.Reason = domain.ReasonSchedulesUnavailable
		result.Errors = append(result.Errors, fmt.Sprintf("fetch schedules: %v", err))
		return result
	}

	remaining := make([]domain.Schedule, 0, len(active))
	for _, s := range active {
		if s.ID != excludedID {
			remaining = append(remaining, s)
		}
	}

	only := make(map[domain.TimeSlot]struct{}, len(slots))
	for _, slot := range slots {
		only[slot] = struct{}{}
	}

	c.scheduleWindow(ctx, result, remaining, only)
	return result
}

// CancelSlot cancels today's notification for one time slot and kind, typically
// after the treatment was logged, and removes the matching index entries.
func (c *Coordinator) CancelSlot(ctx context.Context, slot domain.TimeSlot, kind domain.NotificationKind) *domain.CancellationResult {
	ctx, span := tracing.StartOperationSpan(ctx, OperationCancelSlot, c.session.UserID, c.session.PetID)
	defer span.End()

	result := &domain.CancellationResult{Errors: []string{}}
	if !c.session.Valid() {
		result.Reason = domain.ReasonNoUserOrPet
		tracing.RecordShortCircuit(span, string(result.Reason))
		return result
	}
	defer c.recordDuration(ctx, OperationCancelSlot, time.Now())
	if !slot.IsValid() {
		result.Errors = append(result.Errors, fmt.Sprintf("%v: %q", domain.ErrInvalidTimeSlot, slot))
		return result
	}
	if !kind.IsValid() {
		result.Errors = append(result.Errors, fmt.Sprintf("%v: %q", domain.ErrInvalidKind, kind))
		return result
	}

	today := domain.StartOfDay(c.now())
	c.cancelID(ctx, result, OperationCancelSlot, slotid.Generate(c.session.UserID, c.session.PetID, slot, kind, today))

	entries, err := c.index.GetForDate(ctx, c.session.UserID, c.session.PetID, today)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("index read: %v", err))
	}
	for _, e := range entries {
		if e.TimeSlot != slot || e.Kind != kind {
			continue
		}
		removed, err := c.index.RemoveEntryBy(ctx, c.session.UserID, c.session.PetID, today, e.ScheduleID, slot, kind)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("index remove %s: %v", e.ScheduleID, err))
			continue
		}
		result.EntriesRemoved += removed
	}

	tracing.RecordCancellationResult(span, result.Attempts, result.Canceled, result.EntriesRemoved, len(result.Errors))

	slog.InfoContext(ctx, "slot notification canceled",
		slog.String("user_id", c.session.UserID),
		slog.String("pet_id", c.session.PetID),
		slog.String("time_slot", slot.String()),
		slog.String("kind", kind.String()),
		slog.Int("entries_removed", result.EntriesRemoved),
	)

	return result
}

// CancelAll cancels every pending treatment reminder of the session, whatever its
// date, and clears today's index.
func (c *Coordinator) CancelAll(ctx context.Context) *domain.CancellationResult {
	ctx, span := tracing.StartOperationSpan(ctx, OperationCancelAll, c.session.UserID, c.session.PetID)
	defer span.End()
	start := time.Now()

	result := &domain.CancellationResult{Errors: []string{}}
	if !c.session.Valid() {
		result.Reason = domain.ReasonNoUserOrPet
		tracing.RecordShortCircuit(span, string(result.Reason))
		return result
	}

	today := domain.StartOfDay(c.now())
	ids := make(map[int32]struct{})

	pending, err := c.gateway.PendingNotificationRequests(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("list pending: %v", err))
	}
	for _, p := range pending {
		payload, err := domain.DecodePayload(p.Payload)
		if err != nil {
			continue
		}
		if payload.Type == domain.PayloadTreatmentReminder && payload.UserID == c.session.UserID && payload.PetID == c.session.PetID {
			ids[p.ID] = struct{}{}
		}
	}

	entries, err := c.index.GetForDate(ctx, c.session.UserID, c.session.PetID, today)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("index read: %v", err))
	}
	for _, e := range entries {
		ids[e.NotificationID] = struct{}{}
	}

	for _, id := range sortedIDs(ids) {
		c.cancelID(ctx, result, OperationCancelAll, id)
	}

	if err := c.gateway.CancelGroupSummary(ctx, groupID(c.session.PetID)); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cancel group summary: %v", err))
	}

	if err := c.index.ClearForDate(ctx, c.session.UserID, c.session.PetID, today); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("index clear: %v", err))
	} else {
		result.EntriesRemoved = len(entries)
	}

	tracing.RecordCancellationResult(span, result.Attempts, result.Canceled, result.EntriesRemoved, len(result.Errors))
	if c.metrics != nil {
		c.metrics.RecordOperationDuration(ctx, OperationCancelAll, time.Since(start))
	}

	slog.InfoContext(ctx, "all treatment notifications canceled",
		slog.String("user_id", c.session.UserID),
		slog.String("pet_id", c.session.PetID),
		slog.Int("canceled", result.Canceled),
		slog.Int("error_count", len(result.Errors)),
	)

	return result
}

func (c *Coordinator) cancelID(ctx context.Context, result *domain.CancellationResult, operation string, id int32) {
	result.Attempts++
	if err := c.gateway.Cancel(ctx, id); err != nil {
		slog.WarnContext(ctx, "failed to cancel notification",
			slog.Int("notification_id", int(id)),
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		result.Errors = append(result.Errors, fmt.Sprintf("cancel %d: %v", id, err))
		c.recordCancellation(ctx, operation, outcomeFailed)
		return
	}
	result.Canceled++
	c.recordCancellation(ctx, operation, outcomeCanceled)
}

func uniqueSlots(slots []domain.TimeSlot) []domain.TimeSlot {
	seen := make(map[domain.TimeSlot]struct{}, len(slots))
	out := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if !s.IsValid() {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedIDs(set map[int32]struct{}) []int32 {
	ids := make([]int32, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
