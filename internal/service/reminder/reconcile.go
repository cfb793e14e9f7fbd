package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/observability/tracing"
)

// RefreshAll cancels everything and schedules the whole window again. Edits to
// schedules go through here rather than through incremental updates, because a
// changed reminder time changes the notification id and the old one would be lost.
func (c *Coordinator) RefreshAll(ctx context.Context) *domain.SchedulingResult {
	if !c.session.Valid() {
		return &domain.SchedulingResult{Errors: []string{}, Reason: domain.ReasonNoUserOrPet}
	}

	canceled := c.CancelAll(ctx)
	result := c.ScheduleAllForToday(ctx)
	result.Errors = append(append([]string{}, canceled.Errors...), result.Errors...)

	return result
}

// RescheduleAll reconciles today's index with what the platform reports pending.
// Pending reminders the index does not know are canceled. If any indexed reminder
// is no longer pending, today's index is cleared. A full scheduling pass always
// follows, restoring anything that was lost.
func (c *Coordinator) RescheduleAll(ctx context.Context) *domain.ReconciliationResult {
	ctx, span := tracing.StartOperationSpan(ctx, OperationReconcile, c.session.UserID, c.session.PetID)
	defer span.End()
	start := time.Now()

	result := &domain.ReconciliationResult{Errors: []string{}}
	if !c.session.Valid() {
		result.Reason = domain.ReasonNoUserOrPet
		tracing.RecordShortCircuit(span, string(result.Reason))
		return result
	}

	today := domain.StartOfDay(c.now())
	todayKey := domain.DateKey(today)

	pendingIDs := make(map[int32]struct{})
	pending, pendingErr := c.gateway.PendingNotificationRequests(ctx)
	if pendingErr != nil {
		slog.WarnContext(ctx, "failed to list pending notifications",
			slog.String("user_id", c.session.UserID),
			slog.String("error", pendingErr.Error()),
		)
		result.Errors = append(result.Errors, fmt.Sprintf("list pending: %v", pendingErr))
	}
	for _, p := range pending {
		payload, err := domain.DecodePayload(p.Payload)
		if err != nil {
			continue
		}
		if payload.IsTreatmentReminderFor(c.session.UserID, c.session.PetID, todayKey) {
			pendingIDs[p.ID] = struct{}{}
		}
	}
	result.PendingCount = len(pendingIDs)

	entries, err := c.index.GetForDate(ctx, c.session.UserID, c.session.PetID, today)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("index read: %v", err))
	}
	indexedIDs := make(map[int32]struct{}, len(entries))
	for _, e := range entries {
		indexedIDs[e.NotificationID] = struct{}{}
	}
	result.IndexedCount = len(indexedIDs)

	// Without a pending list there is nothing reliable to compare against.
	if pendingErr == nil {
		for _, id := range sortedIDs(pendingIDs) {
			if _, ok := indexedIDs[id]; ok {
				continue
			}
			if cerr := c.gateway.Cancel(ctx, id); cerr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("cancel orphan %d: %v", id, cerr))
				c.recordCancellation(ctx, OperationReconcile, outcomeFailed)
				continue
			}
			result.OrphansCanceled++
			c.recordCancellation(ctx, OperationReconcile, outcomeCanceled)
		}
	}

	if pendingErr == nil {
		for id := range indexedIDs {
			if _, ok := pendingIDs[id]; !ok {
				result.MissingCount++
			}
		}
	}

	if result.MissingCount > 0 {
		slog.InfoContext(ctx, "indexed notifications missing from platform, clearing today's index",
			slog.String("user_id", c.session.UserID),
			slog.String("pet_id", c.session.PetID),
			slog.Int("missing", result.MissingCount),
		)
		if err := c.index.ClearForDate(ctx, c.session.UserID, c.session.PetID, today); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("index clear: %v", err))
		} else {
			result.IndexCleared = true
		}
	}

	if c.metrics != nil {
		c.metrics.RecordReconciliationDrift(ctx, result.OrphansCanceled, result.MissingCount)
	}

	result.Rescheduled = c.ScheduleAllForToday(ctx)
	result.Errors = append(result.Errors, result.Rescheduled.Errors...)

	tracing.RecordReconciliationResult(span, result.PendingCount, result.IndexedCount, result.OrphansCanceled, result.MissingCount, len(result.Errors))
	if c.metrics != nil {
		c.metrics.RecordOperationDuration(ctx, OperationReconcile, time.Since(start))
	}

	slog.InfoContext(ctx, "reconciliation completed",
		slog.String("user_id", c.session.UserID),
		slog.String("pet_id", c.session.PetID),
		slog.Int("pending", result.PendingCount),
		slog.Int("indexed", result.IndexedCount),
		slog.Int("orphans_canceled", result.OrphansCanceled),
		slog.Int("missing", result.MissingCount),
		slog.Bool("index_cleared", result.IndexCleared),
		slog.Int("error_count", len(result.Errors)),
	)

	return result
}
