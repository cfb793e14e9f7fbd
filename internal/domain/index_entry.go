package domain

import (
	"encoding/json"
	"fmt"
)

// ScheduledNotificationEntry is one notification the coordinator believes is
// currently scheduled on the platform for today.
type ScheduledNotificationEntry struct {
	NotificationID int32
	ScheduleID     string
	TreatmentType  TreatmentType
	TimeSlot       TimeSlot
	Kind           NotificationKind
}

type entryRecord struct {
	NotificationID *int32  `json:"notificationId"`
	ScheduleID     *string `json:"scheduleId"`
	TreatmentType  *string `json:"treatmentType"`
	TimeSlot       *string `json:"timeSlot"`
	Kind           *string `json:"kind"`
}

func (e ScheduledNotificationEntry) Validate() error {
	if e.ScheduleID == "" {
		return fmt.Errorf("%w: %w: scheduleId", ErrInvalidEntry, ErrMissingField)
	}
	if !e.TreatmentType.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEntry, ErrInvalidTreatmentType, e.TreatmentType)
	}
	if !e.TimeSlot.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEntry, ErrInvalidTimeSlot, e.TimeSlot)
	}
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEntry, ErrInvalidKind, e.Kind)
	}
	return nil
}

// Matches reports whether the entry has the same (schedule, slot, kind) identity.
func (e ScheduledNotificationEntry) Matches(scheduleID string, slot TimeSlot, kind NotificationKind) bool {
	return e.ScheduleID == scheduleID && e.TimeSlot == slot && e.Kind == kind
}

func (e ScheduledNotificationEntry) MarshalJSON() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	id := e.NotificationID
	scheduleID := e.ScheduleID
	treatmentType := e.TreatmentType.String()
	slot := e.TimeSlot.String()
	kind := e.Kind.String()
	return json.Marshal(entryRecord{
		NotificationID: &id,
		ScheduleID:     &scheduleID,
		TreatmentType:  &treatmentType,
		TimeSlot:       &slot,
		Kind:           &kind,
	})
}

// UnmarshalJSON rejects any entry with a missing or invalid field.
func (e *ScheduledNotificationEntry) UnmarshalJSON(data []byte) error {
	var rec entryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	missing := ""
	switch {
	case rec.NotificationID == nil:
		missing = "notificationId"
	case rec.ScheduleID == nil:
		missing = "scheduleId"
	case rec.TreatmentType == nil:
		missing = "treatmentType"
	case rec.TimeSlot == nil:
		missing = "timeSlot"
	case rec.Kind == nil:
		missing = "kind"
	}
	if missing != "" {
		return fmt.Errorf("%w: %w: %s", ErrInvalidEntry, ErrMissingField, missing)
	}

	treatmentType, err := ParseTreatmentType(*rec.TreatmentType)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	slot, err := ParseTimeSlot(*rec.TimeSlot)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	kind, err := ParseNotificationKind(*rec.Kind)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	entry := ScheduledNotificationEntry{
		NotificationID: *rec.NotificationID,
		ScheduleID:     *rec.ScheduleID,
		TreatmentType:  treatmentType,
		TimeSlot:       slot,
		Kind:           kind,
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	*e = entry
	return nil
}
