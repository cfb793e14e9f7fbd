package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reminderTracerName = "github.com/hydracat/notification-scheduler/internal/service/reminder"

func ReminderTracer() trace.Tracer {
	return otel.Tracer(reminderTracerName)
}

func StartOperationSpan(ctx context.Context, operation, userID, petID string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder."+operation,
		trace.WithAttributes(
			attribute.String("reminder.operation", operation),
			attribute.String("user_id", userID),
			attribute.String("pet_id", petID),
		),
	)
}

func StartDaySpan(ctx context.Context, date time.Time, offset int) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.schedule_day",
		trace.WithAttributes(
			attribute.String("day.date", date.Format(time.DateOnly)),
			attribute.Int("day.offset", offset),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordSchedulingResult(span trace.Span, scheduled, immediate, missed, errorCount int) {
	span.SetAttributes(
		attribute.Int("scheduling.scheduled_count", scheduled),
		attribute.Int("scheduling.immediate_count", immediate),
		attribute.Int("scheduling.missed_count", missed),
		attribute.Int("scheduling.error_count", errorCount),
	)
	setStatus(span, errorCount)
}

func RecordReconciliationResult(span trace.Span, pending, indexed, orphans, missing, errorCount int) {
	span.SetAttributes(
		attribute.Int("reconciliation.pending_count", pending),
		attribute.Int("reconciliation.indexed_count", indexed),
		attribute.Int("reconciliation.orphan_count", orphans),
		attribute.Int("reconciliation.missing_count", missing),
		attribute.Int("reconciliation.error_count", errorCount),
	)
	setStatus(span, errorCount)
}

func RecordCancellationResult(span trace.Span, attempts, canceled, removed, errorCount int) {
	span.SetAttributes(
		attribute.Int("cancellation.attempt_count", attempts),
		attribute.Int("cancellation.canceled_count", canceled),
		attribute.Int("cancellation.entries_removed", removed),
		attribute.Int("cancellation.error_count", errorCount),
	)
	setStatus(span, errorCount)
}

func RecordShortCircuit(span trace.Span, reason string) {
	span.SetAttributes(attribute.String("reminder.reason", reason))
	span.SetStatus(codes.Ok, reason)
}

func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// setStatus marks partial failures as errors; the operation itself still completed.
func setStatus(span trace.Span, errorCount int) {
	if errorCount > 0 {
		span.SetStatus(codes.Error, "partial failure")
		return
	}
	span.SetStatus(codes.Ok, "")
}
