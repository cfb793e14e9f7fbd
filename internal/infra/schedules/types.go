package schedules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

type ScheduleResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	TreatmentType string   `json:"treatmentType"`
	IsActive      bool     `json:"isActive"`
	Frequency     string   `json:"frequency"`
	ReminderTimes []string `json:"reminderTimes"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`
}

type SchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Count     int                `json:"count"`
}

// ToDomain validates the wire schedule and converts it.
func (r ScheduleResponse) ToDomain() (domain.Schedule, error) {
	treatment, err := domain.ParseTreatmentType(r.TreatmentType)
	if err != nil {
		return domain.Schedule{}, err
	}
	frequency, err := domain.ParseFrequency(r.Frequency)
	if err != nil {
		return domain.Schedule{}, err
	}

	slots := make([]domain.TimeSlot, 0, len(r.ReminderTimes))
	for _, t := range r.ReminderTimes {
		slot, err := domain.ParseTimeSlot(t)
		if err != nil {
			return domain.Schedule{}, err
		}
		slots = append(slots, slot)
	}

	s := domain.Schedule{
		ID:            r.ID,
		Name:          r.Name,
		TreatmentType: treatment,
		Active:        r.IsActive,
		Frequency:     frequency,
		ReminderTimes: slots,
	}

	if r.StartDate != "" {
		start, err := parseDate(r.StartDate)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("startDate: %w", err)
		}
		s.StartDate = start
	}
	if r.EndDate != "" {
		end, err := parseDate(r.EndDate)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("endDate: %w", err)
		}
		s.EndDate = &end
	}
	return s, nil
}

// parseDate accepts RFC3339 timestamps and bare dates, the latter read as UTC midnight.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// activeSchedules converts the response, dropping inactive and malformed schedules.
func activeSchedules(ctx context.Context, resp []ScheduleResponse, logAttrs ...any) []domain.Schedule {
	out := make([]domain.Schedule, 0, len(resp))
	for _, r := range resp {
		s, err := r.ToDomain()
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed schedule",
				append(logAttrs,
					slog.String("schedule_id", r.ID),
					slog.String("error", err.Error()),
				)...,
			)
			continue
		}
		if !s.IsActive() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func fromDomain(s domain.Schedule) ScheduleResponse {
	r := ScheduleResponse{
		ID:            s.ID,
		Name:          s.Name,
		TreatmentType: s.TreatmentType.String(),
		IsActive:      s.Active,
		Frequency:     string(s.Frequency),
	}
	for _, slot := range s.ReminderTimes {
		r.ReminderTimes = append(r.ReminderTimes, slot.String())
	}
	if !s.StartDate.IsZero() {
		r.StartDate = s.StartDate.Format(time.RFC3339)
	}
	if s.EndDate != nil {
		r.EndDate = s.EndDate.Format(time.RFC3339)
	}
	return r
}
