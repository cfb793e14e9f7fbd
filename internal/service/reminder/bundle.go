package reminder

import (
	"sort"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/service/content"
	"github.com/hydracat/notification-scheduler/internal/service/slotid"
)

type decision int

const (
	decisionSchedule decision = iota
	decisionImmediate
	decisionMissed
)

// evaluateGrace decides what happens to a reminder due at target. A target that
// is at most GracePeriod in the past still fires, one second from now.
func evaluateGrace(target, now time.Time) (decision, time.Time) {
	if target.After(now) {
		return decisionSchedule, target
	}
	if now.Sub(target) <= GracePeriod {
		return decisionImmediate, now.Add(immediateDelay)
	}
	return decisionMissed, time.Time{}
}

// bundle is every schedule with a reminder at the same time slot on one day.
type bundle struct {
	slot      domain.TimeSlot
	schedules []domain.Schedule
}

func (b bundle) treatmentTypes() []domain.TreatmentType {
	types := make([]domain.TreatmentType, 0, len(b.schedules))
	for _, s := range b.schedules {
		types = append(types, s.TreatmentType)
	}
	return types
}

func (b bundle) scheduleIDs() []string {
	ids := make([]string, 0, len(b.schedules))
	for _, s := range b.schedules {
		ids = append(ids, s.ID)
	}
	return ids
}

func (b bundle) scheduleNames() []string {
	names := make([]string, 0, len(b.schedules))
	for _, s := range b.schedules {
		names = append(names, s.Name)
	}
	return names
}

func (b bundle) channel() string {
	if len(b.schedules) > 1 {
		return ChannelBundle
	}
	if b.schedules[0].TreatmentType == domain.TreatmentFluid {
		return ChannelFluid
	}
	return ChannelMedication
}

// groupBundles groups the reminders due on day by time slot, in slot order.
// Invalid slots are dropped and a schedule appears at most once per slot.
func groupBundles(schedules []domain.Schedule, day time.Time) []bundle {
	bySlot := make(map[domain.TimeSlot][]domain.Schedule)

	for _, s := range schedules {
		if !s.HasReminderOnDate(day) {
			continue
		}
		seen := make(map[domain.TimeSlot]struct{}, len(s.ReminderTimes))
		for _, slot := range s.ReminderTimes {
			if !slot.IsValid() {
				continue
			}
			if _, dup := seen[slot]; dup {
				continue
			}
			seen[slot] = struct{}{}
			bySlot[slot] = append(bySlot[slot], s)
		}
	}

	bundles := make([]bundle, 0, len(bySlot))
	for slot, members := range bySlot {
		bundles = append(bundles, bundle{slot: slot, schedules: members})
	}
	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].slot < bundles[j].slot
	})

	return bundles
}

func (c *Coordinator) buildRequest(b bundle, day time.Time, kind domain.NotificationKind, fireAt time.Time) *domain.NotificationRequest {
	id := slotid.Generate(c.session.UserID, c.session.PetID, b.slot, kind, day)

	msg := c.localizer.Reminder(c.session.Locale, content.MessageContext{
		PetName:        c.session.PetName,
		Kind:           kind,
		TimeSlot:       b.slot,
		TreatmentTypes: b.treatmentTypes(),
		ScheduleNames:  b.scheduleNames(),
	})

	return &domain.NotificationRequest{
		ID:          id,
		Title:       msg.Title,
		Body:        msg.Body,
		ScheduledAt: fireAt,
		Channel:     b.channel(),
		Payload: domain.NotificationPayload{
			Type:           domain.PayloadTreatmentReminder,
			UserID:         c.session.UserID,
			PetID:          c.session.PetID,
			ScheduleIDs:    b.scheduleIDs(),
			TimeSlot:       b.slot,
			Kind:           kind,
			TreatmentTypes: b.treatmentTypes(),
			ScheduledFor:   fireAt,
			Date:           domain.DateKey(day),
		},
		GroupID:  groupID(c.session.PetID),
		ThreadID: threadID(c.session.PetID),
	}
}

func groupID(petID string) string {
	return "treatments_" + petID
}

func threadID(petID string) string {
	return "pet_" + petID
}
