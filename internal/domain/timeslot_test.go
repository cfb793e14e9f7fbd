package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeSlot(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "midnight", input: "00:00"},
		{name: "last minute of day", input: "23:59"},
		{name: "morning", input: "08:30"},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "single digit hour", input: "8:00", wantErr: true},
		{name: "seconds included", input: "08:00:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeSlot(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeSlot) {
					t.Fatalf("expected ErrInvalidTimeSlot, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.input {
				t.Errorf("got %q, want %q", got, tt.input)
			}
		})
	}
}

func TestTimeSlotOn(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	day := time.Date(2025, 3, 9, 15, 45, 0, 0, loc)
	got := TimeSlot("08:05").On(day)

	want := time.Date(2025, 3, 9, 8, 5, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("On() = %v, want %v", got, want)
	}
	if TimeSlotOf(got) != "08:05" {
		t.Errorf("TimeSlotOf() = %q, want 08:05", TimeSlotOf(got))
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	day := time.Date(2025, 3, 29, 17, 0, 0, 0, loc)
	next := AddDays(day, 1)

	if DateKey(next) != "2025-03-30" {
		t.Errorf("DateKey() = %s, want 2025-03-30", DateKey(next))
	}
	if next.Hour() != 0 || next.Minute() != 0 {
		t.Errorf("expected local midnight, got %v", next)
	}
}
