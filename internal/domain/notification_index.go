package domain

import (
	"context"
	"time"
)

// NotificationIndexRepository persists the entries the coordinator has scheduled,
// bucketed per (user, pet, local date).
type NotificationIndexRepository interface {
	PutEntry(ctx context.Context, userID, petID string, date time.Time, entry ScheduledNotificationEntry) error
	GetForDate(ctx context.Context, userID, petID string, date time.Time) ([]ScheduledNotificationEntry, error)
	GetForDateValidated(ctx context.Context, userID, petID string, date time.Time, pendingIDs map[int32]struct{}) ([]ScheduledNotificationEntry, error)
	RemoveEntryBy(ctx context.Context, userID, petID string, date time.Time, scheduleID string, slot TimeSlot, kind NotificationKind) (int, error)
	RemoveAllForSchedule(ctx context.Context, userID, petID string, date time.Time, scheduleID string) (int, error)
	ClearForDate(ctx context.Context, userID, petID string, date time.Time) error
}
