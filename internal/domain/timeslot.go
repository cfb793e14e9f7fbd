package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const dateKeyLayout = "2006-01-02"

var timeSlotPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// TimeSlot is a 24-hour "HH:mm" time of day.
type TimeSlot string

func ParseTimeSlot(s string) (TimeSlot, error) {
	if !timeSlotPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeSlot, s)
	}
	return TimeSlot(s), nil
}

func TimeSlotOf(t time.Time) TimeSlot {
	return TimeSlot(t.Format("15:04"))
}

func (s TimeSlot) String() string {
	return string(s)
}

func (s TimeSlot) IsValid() bool {
	return timeSlotPattern.MatchString(string(s))
}

// On returns the instant of the slot on the calendar date of day, in day's location.
// The slot must be valid.
func (s TimeSlot) On(day time.Time) time.Time {
	m := timeSlotPattern.FindStringSubmatch(string(s))
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays moves a calendar date by n days, keeping it at local midnight across DST changes.
func AddDays(day time.Time, n int) time.Time {
	return StartOfDay(day).AddDate(0, 0, n)
}

func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, loc)
}
