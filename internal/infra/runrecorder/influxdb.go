//go:build !gcloud

package runrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

const runMeasurement = "reminder_run"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.RunRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "run result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, run result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "run result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func runPoint(record domain.RunRecord) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	tags := map[string]string{
		"run_id":    runID,
		"operation": record.Operation,
	}
	if record.Reason != "" {
		tags["reason"] = record.Reason
	}

	return influxdb2.NewPoint(
		runMeasurement,
		tags,
		map[string]any{
			"user_id":          record.UserID,
			"pet_id":           record.PetID,
			"scheduled":        record.Scheduled,
			"immediate":        record.Immediate,
			"missed":           record.Missed,
			"orphans_canceled": record.OrphansCanceled,
			"missing_count":    record.MissingCount,
			"canceled":         record.Canceled,
			"error_count":      record.ErrorCount,
		},
		recordedAt,
	)
}

// RecordRun writes one point per run. Write failures are logged, not returned.
func (r *influxDBRecorder) RecordRun(ctx context.Context, record domain.RunRecord) error {
	if err := r.writeAPI.WritePoint(ctx, runPoint(record)); err != nil {
		slog.WarnContext(ctx, "failed to write run result to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
			slog.String("operation", record.Operation),
		)
	}
	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
