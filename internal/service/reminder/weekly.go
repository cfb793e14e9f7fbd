package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/observability/tracing"
	"github.com/hydracat/notification-scheduler/internal/service/slotid"
)

// nextWeeklySummary returns the first Monday 09:00 strictly after now, in now's location.
func nextWeeklySummary(now time.Time) time.Time {
	daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day()+daysUntilMonday, weeklySummaryHour, 0, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// ScheduleWeeklySummary schedules next Monday's summary unless it is already pending.
func (c *Coordinator) ScheduleWeeklySummary(ctx context.Context) *domain.WeeklySummaryResult {
	ctx, span := tracing.StartOperationSpan(ctx, OperationScheduleWeekly, c.session.UserID, c.session.PetID)
	defer span.End()

	result := &domain.WeeklySummaryResult{Errors: []string{}}
	if !c.session.Valid() {
		result.Reason = domain.ReasonNoUserOrPet
		tracing.RecordShortCircuit(span, string(result.Reason))
		return result
	}
	defer c.recordDuration(ctx, OperationScheduleWeekly, time.Now())

	fireAt := nextWeeklySummary(c.now())
	weekStart := domain.StartOfDay(fireAt)
	id := slotid.WeeklySummary(c.session.UserID, c.session.PetID, weekStart)
	result.NotificationID = id
	result.ScheduledFor = fireAt

	pending, err := c.gateway.PendingNotificationRequests(ctx)
	if err != nil {
		// Scheduling replaces a pending id, so going ahead is still safe.
		result.Errors = append(result.Errors, fmt.Sprintf("list pending: %v", err))
	}
	for _, p := range pending {
		if p.ID == id {
			result.AlreadyPending = true
			slog.DebugContext(ctx, "weekly summary already pending",
				slog.Int("notification_id", int(id)),
				slog.Time("scheduled_for", fireAt),
			)
			return result
		}
	}

	msg := c.localizer.WeeklySummary(c.session.Locale, c.session.PetName)
	req := &domain.NotificationRequest{
		ID:          id,
		Title:       msg.Title,
		Body:        msg.Body,
		ScheduledAt: fireAt,
		Channel:     ChannelWeeklySummary,
		Payload: domain.NotificationPayload{
			Type:         domain.PayloadWeeklySummary,
			UserID:       c.session.UserID,
			PetID:        c.session.PetID,
			ScheduledFor: fireAt,
			Date:         domain.DateKey(weekStart),
		},
		ThreadID: threadID(c.session.PetID),
	}

	if err := c.gateway.ScheduleAt(ctx, req); err != nil {
		slog.WarnContext(ctx, "failed to schedule weekly summary",
			slog.Int("notification_id", int(id)),
			slog.String("error", err.Error()),
		)
		result.Errors = append(result.Errors, fmt.Sprintf("schedule weekly summary: %v", err))
		tracing.RecordError(span, err)
		return result
	}
	result.Scheduled = true

	slog.InfoContext(ctx, "weekly summary scheduled",
		slog.String("user_id", c.session.UserID),
		slog.String("pet_id", c.session.PetID),
		slog.Int("notification_id", int(id)),
		slog.Time("scheduled_for", fireAt),
	)

	return result
}

// CancelWeeklySummary cancels the summaries of the next four weeks. Ids depend on
// the week start, so each candidate is canceled explicitly.
func (c *Coordinator) CancelWeeklySummary(ctx context.Context) *domain.WeeklySummaryResult {
	ctx, span := tracing.StartOperationSpan(ctx, OperationCancelWeeklySummary, c.session.UserID, c.session.PetID)
	defer span.End()

	result := &domain.WeeklySummaryResult{Errors: []string{}}
	if !c.session.Valid() {
		result.Reason = domain.ReasonNoUserOrPet
		tracing.RecordShortCircuit(span, string(result.Reason))
		return result
	}
	defer c.recordDuration(ctx, OperationCancelWeeklySummary, time.Now())

	firstWeek := domain.StartOfDay(nextWeeklySummary(c.now()))
	for week := 0; week < weeklySummaryWeeks; week++ {
		id := slotid.WeeklySummary(c.session.UserID, c.session.PetID, domain.AddDays(firstWeek, 7*week))
		if err := c.gateway.Cancel(ctx, id); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("cancel weekly summary %d: %v", id, err))
			c.recordCancellation(ctx, OperationCancelWeeklySummary, outcomeFailed)
			continue
		}
		result.Canceled++
		c.recordCancellation(ctx, OperationCancelWeeklySummary, outcomeCanceled)
	}

	tracing.RecordCancellationResult(span, weeklySummaryWeeks, result.Canceled, 0, len(result.Errors))

	slog.InfoContext(ctx, "weekly summaries canceled",
		slog.String("user_id", c.session.UserID),
		slog.String("pet_id", c.session.PetID),
		slog.Int("canceled", result.Canceled),
	)

	return result
}
