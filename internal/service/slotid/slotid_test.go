package slotid

import (
	"testing"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

func TestGenerateIsDeterministic(t *testing.T) {
	date := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	a := Generate("user-1", "pet-1", "08:00", domain.KindInitial, date)
	b := Generate("user-1", "pet-1", "08:00", domain.KindInitial, date.Add(10*time.Hour))

	if a != b {
		t.Errorf("same calendar date produced different ids: %d vs %d", a, b)
	}
	if a < 0 {
		t.Errorf("id must be non-negative, got %d", a)
	}
}

func TestGenerateDistinguishesInputs(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	base := Generate("user-1", "pet-1", "08:00", domain.KindInitial, date)

	tests := []struct {
		name string
		got  int32
	}{
		{name: "other user", got: Generate("user-2", "pet-1", "08:00", domain.KindInitial, date)},
		{name: "other pet", got: Generate("user-1", "pet-2", "08:00", domain.KindInitial, date)},
		{name: "other slot", got: Generate("user-1", "pet-1", "08:01", domain.KindInitial, date)},
		{name: "followup", got: Generate("user-1", "pet-1", "08:00", domain.KindFollowup, date)},
		{name: "next day", got: Generate("user-1", "pet-1", "08:00", domain.KindInitial, date.AddDate(0, 0, 1))},
		{name: "field boundary shift", got: Generate("user-1pet-1", "", "08:00", domain.KindInitial, date)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got == base {
				t.Errorf("expected a different id than %d", base)
			}
		})
	}
}

func TestGenerateAcrossThousandDays(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := make(map[int32]int, 1000)

	for offset := 0; offset < 1000; offset++ {
		id := Generate("user-1", "pet-1", "08:00", domain.KindInitial, start.AddDate(0, 0, offset))
		if id < 0 {
			t.Fatalf("offset %d: negative id %d", offset, id)
		}
		if prev, ok := seen[id]; ok {
			t.Fatalf("offset %d collides with offset %d (id %d)", offset, prev, id)
		}
		seen[id] = offset
	}
}

func TestWeeklySummaryIsSeparateFromTreatmentIDs(t *testing.T) {
	week := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	summary := WeeklySummary("user-1", "pet-1", week)
	if summary != WeeklySummary("user-1", "pet-1", week) {
		t.Fatal("weekly summary id is not deterministic")
	}
	if summary == WeeklySummary("user-1", "pet-1", week.AddDate(0, 0, 7)) {
		t.Error("consecutive weeks share an id")
	}
	for _, kind := range []domain.NotificationKind{domain.KindInitial, domain.KindFollowup} {
		if summary == Generate("user-1", "pet-1", "09:00", kind, week) {
			t.Errorf("weekly summary collides with %s treatment id", kind)
		}
	}
}
