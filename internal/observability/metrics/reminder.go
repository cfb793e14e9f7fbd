package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	reminderMeterName = "reminder.coordinator"
)

type ReminderMetrics struct {
	notifications       metric.Int64Counter
	cancellations       metric.Int64Counter
	reconciliationDrift metric.Int64Counter
	operationDuration   metric.Float64Histogram
}

func NewReminderMetrics() (*ReminderMetrics, error) {
	return NewReminderMetricsWithMeter(otel.Meter(reminderMeterName))
}

func NewReminderMetricsWithMeter(meter metric.Meter) (*ReminderMetrics, error) {
	notifications, err := meter.Int64Counter(
		"reminder_notifications_total",
		metric.WithDescription("Notification slots evaluated, by outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	cancellations, err := meter.Int64Counter(
		"reminder_cancellations_total",
		metric.WithDescription("Notification cancel attempts, by outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	reconciliationDrift, err := meter.Int64Counter(
		"reminder_reconciliation_drift_total",
		metric.WithDescription("Orphaned and missing notifications found by reconciliation"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram(
		"reminder_operation_duration_seconds",
		metric.WithDescription("Coordinator operation duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ReminderMetrics{
		notifications:       notifications,
		cancellations:       cancellations,
		reconciliationDrift: reconciliationDrift,
		operationDuration:   operationDuration,
	}, nil
}

// RecordNotification counts one slot outcome: scheduled, immediate, missed or failed.
func (m *ReminderMetrics) RecordNotification(ctx context.Context, kind, outcome string) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	})...))
}

func (m *ReminderMetrics) RecordCancellation(ctx context.Context, operation, outcome string) {
	m.cancellations.Add(ctx, 1, metric.WithAttributes(appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	})...))
}

func (m *ReminderMetrics) RecordReconciliationDrift(ctx context.Context, orphans, missing int) {
	if orphans > 0 {
		m.reconciliationDrift.Add(ctx, int64(orphans), metric.WithAttributes(
			attribute.String("drift", "orphan"),
		))
	}
	if missing > 0 {
		m.reconciliationDrift.Add(ctx, int64(missing), metric.WithAttributes(
			attribute.String("drift", "missing"),
		))
	}
}

func (m *ReminderMetrics) RecordOperationDuration(ctx context.Context, operation string, duration time.Duration) {
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
