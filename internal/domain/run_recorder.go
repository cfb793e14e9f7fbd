package domain

import (
	"context"
	"time"
)

// RunRecord is the outcome summary of one coordinator operation.
type RunRecord struct {
	RunID           string
	Operation       string
	UserID          string
	PetID           string
	RecordedAt      time.Time
	Scheduled       int
	Immediate       int
	Missed          int
	OrphansCanceled int
	MissingCount    int
	Canceled        int
	ErrorCount      int
	Reason          string
}

type RunRecorder interface {
	RecordRun(ctx context.Context, record RunRecord) error
	Flush(ctx context.Context) error
	Close() error
}
