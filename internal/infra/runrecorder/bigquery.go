//go:build gcloud

package runrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

type bigQueryRecord struct {
	RunID           string    `bigquery:"run_id"`
	RecordedAt      time.Time `bigquery:"recorded_at"`
	Operation       string    `bigquery:"operation"`
	UserID          string    `bigquery:"user_id"`
	PetID           string    `bigquery:"pet_id"`
	Scheduled       int64     `bigquery:"scheduled"`
	Immediate       int64     `bigquery:"immediate"`
	Missed          int64     `bigquery:"missed"`
	OrphansCanceled int64     `bigquery:"orphans_canceled"`
	MissingCount    int64     `bigquery:"missing_count"`
	Canceled        int64     `bigquery:"canceled"`
	ErrorCount      int64     `bigquery:"error_count"`
	Reason          string    `bigquery:"reason"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.RunRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "run result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, run result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, run result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	inserter := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter()

	slog.InfoContext(ctx, "run result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordRun(ctx context.Context, record domain.RunRecord) error {
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	row := &bigQueryRecord{
		RunID:           record.RunID,
		RecordedAt:      recordedAt,
		Operation:       record.Operation,
		UserID:          record.UserID,
		PetID:           record.PetID,
		Scheduled:       int64(record.Scheduled),
		Immediate:       int64(record.Immediate),
		Missed:          int64(record.Missed),
		OrphansCanceled: int64(record.OrphansCanceled),
		MissingCount:    int64(record.MissingCount),
		Canceled:        int64(record.Canceled),
		ErrorCount:      int64(record.ErrorCount),
		Reason:          record.Reason,
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert run result to BigQuery",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
