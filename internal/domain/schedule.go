package domain

import (
	"context"
	"fmt"
	"time"
)

// Frequency is how often a schedule recurs, counted in whole days from its start date.
type Frequency string

const (
	FrequencyDaily         Frequency = "daily"
	FrequencyEveryOtherDay Frequency = "every_other_day"
	FrequencyEvery3Days    Frequency = "every_3_days"
	FrequencyWeekly        Frequency = "weekly"
)

func (f Frequency) IntervalDays() int {
	switch f {
	case FrequencyEveryOtherDay:
		return 2
	case FrequencyEvery3Days:
		return 3
	case FrequencyWeekly:
		return 7
	default:
		return 1
	}
}

func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyDaily, FrequencyEveryOtherDay, FrequencyEvery3Days, FrequencyWeekly:
		return f, nil
	case "":
		return FrequencyDaily, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
}

// Schedule is a recurring treatment definition owned by the schedule service.
// The scheduler only reads it.
type Schedule struct {
	ID            string
	Name          string
	TreatmentType TreatmentType
	Active        bool
	Frequency     Frequency
	ReminderTimes []TimeSlot
	StartDate     time.Time
	EndDate       *time.Time
}

func (s *Schedule) IsActive() bool {
	return s.Active
}

func (s *Schedule) HasReminderOnDate(date time.Time) bool {
	if !s.Active || len(s.ReminderTimes) == 0 {
		return false
	}

	day := StartOfDay(date)
	loc := day.Location()

	if !s.StartDate.IsZero() {
		start := StartOfDay(s.StartDate.In(loc))
		if day.Before(start) {
			return false
		}
		if s.EndDate != nil && day.After(StartOfDay(s.EndDate.In(loc))) {
			return false
		}
		return daysBetween(start, day)%s.Frequency.IntervalDays() == 0
	}

	if s.EndDate != nil && day.After(StartOfDay(s.EndDate.In(loc))) {
		return false
	}
	return true
}

// ReminderTimesOnDate expands the schedule's time slots into instants on date.
func (s *Schedule) ReminderTimesOnDate(date time.Time) []time.Time {
	if !s.HasReminderOnDate(date) {
		return nil
	}

	times := make([]time.Time, 0, len(s.ReminderTimes))
	for _, slot := range s.ReminderTimes {
		if !slot.IsValid() {
			continue
		}
		times = append(times, slot.On(date))
	}
	return times
}

// daysBetween counts calendar days, ignoring DST-shortened or lengthened days.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

//go:generate mockgen -source=schedule.go -destination=schedule_mock.go -package=domain

type ScheduleProvider interface {
	ActiveSchedules(ctx context.Context, userID, petID string) ([]Schedule, error)
}
