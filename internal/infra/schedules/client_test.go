//go:build !gcloud

package schedules

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/observability/logging"
)

func TestClient_ActiveSchedules(t *testing.T) {
	var gotPath, gotQuery, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get(logging.RequestIDHeader)
		_ = json.NewEncoder(w).Encode(SchedulesResponse{
			Schedules: []ScheduleResponse{
				{ID: "s1", Name: "Benazepril", TreatmentType: "medication", IsActive: true, Frequency: "daily", ReminderTimes: []string{"08:00", "20:00"}, StartDate: "2025-06-01T00:00:00Z"},
				{ID: "s2", Name: "Fluids", TreatmentType: "fluid", IsActive: false, Frequency: "daily", ReminderTimes: []string{"09:00"}},
				{ID: "s3", Name: "Broken", TreatmentType: "vitamins", IsActive: true, ReminderTimes: []string{"09:00"}},
				{ID: "s4", Name: "Bad slot", TreatmentType: "fluid", IsActive: true, ReminderTimes: []string{"25:00"}},
			},
			Count: 4,
		})
	}))
	defer srv.Close()

	ctx := logging.WithRequestID(context.Background(), "req-7")
	got, err := NewClient(srv.URL).ActiveSchedules(ctx, "user/1", "pet-1")
	if err != nil {
		t.Fatalf("ActiveSchedules() error = %v", err)
	}

	if gotPath != "/api/v1/users/user%2F1/pets/pet-1/schedules" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "active=true" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotRequestID != "req-7" {
		t.Errorf("request id header = %q, want req-7", gotRequestID)
	}

	if len(got) != 1 {
		t.Fatalf("len(schedules) = %d, want 1 (inactive and malformed dropped)", len(got))
	}
	s := got[0]
	if s.ID != "s1" || s.TreatmentType != domain.TreatmentMedication || s.Frequency != domain.FrequencyDaily {
		t.Errorf("schedule = %+v", s)
	}
	if len(s.ReminderTimes) != 2 || s.ReminderTimes[1] != "20:00" {
		t.Errorf("ReminderTimes = %v", s.ReminderTimes)
	}
}

func TestClient_ActiveSchedules_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "invalid body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			if _, err := NewClient(srv.URL).ActiveSchedules(context.Background(), "u1", "p1"); err == nil {
				t.Error("ActiveSchedules() error = nil, want error")
			}
		})
	}
}
