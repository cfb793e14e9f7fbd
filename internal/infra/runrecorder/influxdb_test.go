//go:build !gcloud

package runrecorder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

func TestNewRecorder_FallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Disabled: true, InfluxDBToken: "t", InfluxDBOrg: "o"}},
		{"missing token", &Config{InfluxDBOrg: "o"}},
		{"missing org", &Config{InfluxDBToken: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecorder(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("NewRecorder() error = %v", err)
			}
			if _, ok := rec.(*noopRecorder); !ok {
				t.Errorf("NewRecorder() = %T, want *noopRecorder", rec)
			}
			if err := rec.RecordRun(context.Background(), domain.RunRecord{}); err != nil {
				t.Errorf("RecordRun() error = %v", err)
			}
		})
	}
}

func TestRunPoint(t *testing.T) {
	at := time.Date(2025, 6, 4, 7, 0, 0, 0, time.UTC)
	point := runPoint(domain.RunRecord{
		RunID:      "run-1",
		Operation:  "reschedule_all",
		UserID:     "u1",
		PetID:      "p1",
		RecordedAt: at,
		Scheduled:  3,
		ErrorCount: 1,
	})

	line := write.PointToLineProtocol(point, time.Second)
	for _, want := range []string{
		"reminder_run,",
		"operation=reschedule_all",
		"run_id=run-1",
		"scheduled=3i",
		"error_count=1i",
		`user_id="u1"`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line protocol %q missing %q", line, want)
		}
	}
}
