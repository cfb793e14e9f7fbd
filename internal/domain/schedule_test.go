package domain

import (
	"testing"
	"time"
)

func TestScheduleHasReminderOnDate(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedule Schedule
		date     time.Time
		want     bool
	}{
		{
			name:     "inactive schedule",
			schedule: Schedule{Active: false, Frequency: FrequencyDaily, ReminderTimes: []TimeSlot{"08:00"}},
			date:     start,
			want:     false,
		},
		{
			name:     "daily without start date",
			schedule: Schedule{Active: true, Frequency: FrequencyDaily, ReminderTimes: []TimeSlot{"08:00"}},
			date:     start,
			want:     true,
		},
		{
			name:     "before start date",
			schedule: Schedule{Active: true, Frequency: FrequencyDaily, ReminderTimes: []TimeSlot{"08:00"}, StartDate: start},
			date:     start.AddDate(0, 0, -1),
			want:     false,
		},
		{
			name:     "after end date",
			schedule: Schedule{Active: true, Frequency: FrequencyDaily, ReminderTimes: []TimeSlot{"08:00"}, StartDate: start, EndDate: &end},
			date:     end.AddDate(0, 0, 1),
			want:     false,
		},
		{
			name:     "on end date",
			schedule: Schedule{Active: true, Frequency: FrequencyDaily, ReminderTimes: []TimeSlot{"08:00"}, StartDate: start, EndDate: &end},
			date:     end.Add(23 * time.Hour),
			want:     true,
		},
		{
			name:     "every other day on off day",
			schedule: Schedule{Active: true, Frequency: FrequencyEveryOtherDay, ReminderTimes: []TimeSlot{"08:00"}, StartDate: start},
			date:     start.AddDate(0, 0, 3),
			want:     false,
		},
		{
			name:     "every other day on day",
			schedule: Schedule{Active: true, Frequency: FrequencyEveryOtherDay, ReminderTimes: []TimeSlot{"08:00"}, StartDate: start},
			date:     start.AddDate(0, 0, 4),
			want:     true,
		},
		{
			name:     "weekly a week later",
			schedule: Schedule{Active: true, Frequency: FrequencyWeekly, ReminderTimes: []TimeSlot{"08:00"}, StartDate: start},
			date:     start.AddDate(0, 0, 7),
			want:     true,
		},
		{
			name:     "no reminder times",
			schedule: Schedule{Active: true, Frequency: FrequencyDaily},
			date:     start,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.schedule.HasReminderOnDate(tt.date); got != tt.want {
				t.Errorf("HasReminderOnDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScheduleReminderTimesOnDate(t *testing.T) {
	s := Schedule{
		Active:        true,
		Frequency:     FrequencyDaily,
		ReminderTimes: []TimeSlot{"08:00", "20:30"},
	}
	date := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	got := s.ReminderTimesOnDate(date)
	if len(got) != 2 {
		t.Fatalf("got %d times, want 2", len(got))
	}
	if want := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC); !got[1].Equal(want) {
		t.Errorf("second time = %v, want %v", got[1], want)
	}
}
