package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestScheduledNotificationEntryUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ScheduledNotificationEntry
		wantErr error
	}{
		{
			name:  "valid entry",
			input: `{"notificationId":42,"scheduleId":"sched-1","treatmentType":"fluid","timeSlot":"08:00","kind":"followup"}`,
			want: ScheduledNotificationEntry{
				NotificationID: 42,
				ScheduleID:     "sched-1",
				TreatmentType:  TreatmentFluid,
				TimeSlot:       "08:00",
				Kind:           KindFollowup,
			},
		},
		{
			name:    "missing notification id",
			input:   `{"scheduleId":"sched-1","treatmentType":"fluid","timeSlot":"08:00","kind":"initial"}`,
			wantErr: ErrMissingField,
		},
		{
			name:    "missing kind",
			input:   `{"notificationId":1,"scheduleId":"sched-1","treatmentType":"fluid","timeSlot":"08:00"}`,
			wantErr: ErrMissingField,
		},
		{
			name:    "unknown treatment type",
			input:   `{"notificationId":1,"scheduleId":"sched-1","treatmentType":"diet","timeSlot":"08:00","kind":"initial"}`,
			wantErr: ErrInvalidTreatmentType,
		},
		{
			name:    "malformed time slot",
			input:   `{"notificationId":1,"scheduleId":"sched-1","treatmentType":"medication","timeSlot":"25:00","kind":"initial"}`,
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "unknown kind",
			input:   `{"notificationId":1,"scheduleId":"sched-1","treatmentType":"medication","timeSlot":"08:00","kind":"snooze"}`,
			wantErr: ErrInvalidKind,
		},
		{
			name:    "empty schedule id",
			input:   `{"notificationId":1,"scheduleId":"","treatmentType":"medication","timeSlot":"08:00","kind":"initial"}`,
			wantErr: ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ScheduledNotificationEntry
			err := json.Unmarshal([]byte(tt.input), &got)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, ErrInvalidEntry) {
					t.Errorf("expected error to wrap ErrInvalidEntry, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScheduledNotificationEntryMarshalRejectsInvalid(t *testing.T) {
	entry := ScheduledNotificationEntry{
		NotificationID: 1,
		ScheduleID:     "sched-1",
		TreatmentType:  TreatmentMedication,
		TimeSlot:       "8:00",
		Kind:           KindInitial,
	}

	if _, err := json.Marshal(entry); !errors.Is(err, ErrInvalidTimeSlot) {
		t.Fatalf("expected ErrInvalidTimeSlot, got %v", err)
	}
}
