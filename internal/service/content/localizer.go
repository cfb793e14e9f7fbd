// Package content turns a reminder's context into localized notification text.
package content

import (
	"github.com/hydracat/notification-scheduler/internal/domain"
)

// MessageContext is everything the text of one reminder may depend on.
type MessageContext struct {
	PetName        string
	Kind           domain.NotificationKind
	TimeSlot       domain.TimeSlot
	TreatmentTypes []domain.TreatmentType
	ScheduleNames  []string
}

// Bundled reports whether the reminder covers more than one treatment.
func (mc MessageContext) Bundled() bool {
	return len(mc.TreatmentTypes) > 1
}

type Message struct {
	Title string
	Body  string
}

type Localizer interface {
	Reminder(locale string, mc MessageContext) Message
	WeeklySummary(locale, petName string) Message
}
