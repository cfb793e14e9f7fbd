package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type PayloadType string

const (
	PayloadTreatmentReminder PayloadType = "treatment_reminder"
	PayloadWeeklySummary     PayloadType = "weekly_summary"
)

// NotificationPayload is attached to every scheduled notification and read back
// from the platform's pending list during reconciliation.
type NotificationPayload struct {
	Type           PayloadType
	UserID         string
	PetID          string
	ScheduleIDs    []string
	TimeSlot       TimeSlot
	Kind           NotificationKind
	TreatmentTypes []TreatmentType
	ScheduledFor   time.Time
	Date           string
}

type payloadRecord struct {
	Type           string `json:"type"`
	UserID         string `json:"userId"`
	PetID          string `json:"petId"`
	ScheduleIDs    string `json:"scheduleIds,omitempty"`
	TimeSlot       string `json:"timeSlot,omitempty"`
	Kind           string `json:"kind,omitempty"`
	TreatmentTypes string `json:"treatmentTypes,omitempty"`
	ScheduledFor   string `json:"scheduledFor"`
	Date           string `json:"date"`
}

func (p NotificationPayload) MarshalJSON() ([]byte, error) {
	types := make([]string, 0, len(p.TreatmentTypes))
	for _, t := range p.TreatmentTypes {
		types = append(types, t.String())
	}

	return json.Marshal(payloadRecord{
		Type:           string(p.Type),
		UserID:         p.UserID,
		PetID:          p.PetID,
		ScheduleIDs:    strings.Join(p.ScheduleIDs, ","),
		TimeSlot:       p.TimeSlot.String(),
		Kind:           p.Kind.String(),
		TreatmentTypes: strings.Join(types, ","),
		ScheduledFor:   p.ScheduledFor.Format(time.RFC3339),
		Date:           p.Date,
	})
}

func (p *NotificationPayload) UnmarshalJSON(data []byte) error {
	var rec payloadRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if rec.Type == "" {
		return fmt.Errorf("%w: %w: type", ErrInvalidPayload, ErrMissingField)
	}

	out := NotificationPayload{
		Type:        PayloadType(rec.Type),
		UserID:      rec.UserID,
		PetID:       rec.PetID,
		ScheduleIDs: splitList(rec.ScheduleIDs),
		TimeSlot:    TimeSlot(rec.TimeSlot),
		Kind:        NotificationKind(rec.Kind),
		Date:        rec.Date,
	}
	for _, t := range splitList(rec.TreatmentTypes) {
		out.TreatmentTypes = append(out.TreatmentTypes, TreatmentType(t))
	}
	if rec.ScheduledFor != "" {
		scheduledFor, err := time.Parse(time.RFC3339, rec.ScheduledFor)
		if err != nil {
			return fmt.Errorf("%w: scheduledFor: %w", ErrInvalidPayload, err)
		}
		out.ScheduledFor = scheduledFor
	}

	*p = out
	return nil
}

func DecodePayload(raw string) (NotificationPayload, error) {
	var p NotificationPayload
	if raw == "" {
		return p, fmt.Errorf("%w: empty", ErrInvalidPayload)
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return NotificationPayload{}, err
	}
	return p, nil
}

func (p NotificationPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsTreatmentReminderFor reports whether the payload is a treatment reminder of the
// given session on the given date.
func (p NotificationPayload) IsTreatmentReminderFor(userID, petID, date string) bool {
	return p.Type == PayloadTreatmentReminder && p.UserID == userID && p.PetID == petID && p.Date == date
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
