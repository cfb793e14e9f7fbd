// Package indexstore persists, per (user, pet, local date), the notifications the
// coordinator has scheduled for that day.
package indexstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/infra/kvstore"
)

const (
	indexKeyPrefix = "notification_index:"

	DefaultTTL = 48 * time.Hour // today plus a day of slack for late reconciliation
)

type indexRepository struct {
	store kvstore.Store
	ttl   time.Duration
}

func NewNotificationIndexRepository(store kvstore.Store, ttl time.Duration) domain.NotificationIndexRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &indexRepository{
		store: store,
		ttl:   ttl,
	}
}

func indexKey(userID, petID string, date time.Time) string {
	return indexKeyPrefix + url.PathEscape(userID) + ":" + url.PathEscape(petID) + ":" + domain.DateKey(date)
}

func (r *indexRepository) PutEntry(ctx context.Context, userID, petID string, date time.Time, entry domain.ScheduledNotificationEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	key := indexKey(userID, petID, date)
	entries, err := r.load(ctx, key)
	if err != nil {
		return err
	}

	replaced := false
	for i := range entries {
		if entries[i].Matches(entry.ScheduleID, entry.TimeSlot, entry.Kind) {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	return r.save(ctx, key, entries)
}

func (r *indexRepository) GetForDate(ctx context.Context, userID, petID string, date time.Time) ([]domain.ScheduledNotificationEntry, error) {
	return r.load(ctx, indexKey(userID, petID, date))
}

func (r *indexRepository) GetForDateValidated(ctx context.Context, userID, petID string, date time.Time, pendingIDs map[int32]struct{}) ([]domain.ScheduledNotificationEntry, error) {
	key := indexKey(userID, petID, date)
	entries, err := r.load(ctx, key)
	if err != nil {
		return nil, err
	}

	valid := make([]domain.ScheduledNotificationEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := pendingIDs[e.NotificationID]; ok {
			valid = append(valid, e)
		}
	}

	if len(valid) != len(entries) {
		slog.InfoContext(ctx, "dropped stale index entries",
			slog.String("key", key),
			slog.Int("dropped", len(entries)-len(valid)),
		)
		if err := r.save(ctx, key, valid); err != nil {
			return nil, err
		}
	}

	return valid, nil
}

func (r *indexRepository) RemoveEntryBy(ctx context.Context, userID, petID string, date time.Time, scheduleID string, slot domain.TimeSlot, kind domain.NotificationKind) (int, error) {
	return r.removeWhere(ctx, indexKey(userID, petID, date), func(e domain.ScheduledNotificationEntry) bool {
		return e.Matches(scheduleID, slot, kind)
	})
}

func (r *indexRepository) RemoveAllForSchedule(ctx context.Context, userID, petID string, date time.Time, scheduleID string) (int, error) {
	return r.removeWhere(ctx, indexKey(userID, petID, date), func(e domain.ScheduledNotificationEntry) bool {
		return e.ScheduleID == scheduleID
	})
}

func (r *indexRepository) ClearForDate(ctx context.Context, userID, petID string, date time.Time) error {
	return r.store.Delete(ctx, indexKey(userID, petID, date))
}

func (r *indexRepository) removeWhere(ctx context.Context, key string, match func(domain.ScheduledNotificationEntry) bool) (int, error) {
	entries, err := r.load(ctx, key)
	if err != nil {
		return 0, err
	}

	kept := make([]domain.ScheduledNotificationEntry, 0, len(entries))
	for _, e := range entries {
		if !match(e) {
			kept = append(kept, e)
		}
	}

	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.save(ctx, key, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// load returns an empty list when the key is absent or its content is unreadable.
func (r *indexRepository) load(ctx context.Context, key string) ([]domain.ScheduledNotificationEntry, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return []domain.ScheduledNotificationEntry{}, nil
		}
		return nil, err
	}

	var entries []domain.ScheduledNotificationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.WarnContext(ctx, "discarding unreadable notification index",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return []domain.ScheduledNotificationEntry{}, nil
	}
	if entries == nil {
		entries = []domain.ScheduledNotificationEntry{}
	}

	return entries, nil
}

func (r *indexRepository) save(ctx context.Context, key string, entries []domain.ScheduledNotificationEntry) error {
	if len(entries) == 0 {
		return r.store.Delete(ctx, key)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	return r.store.Set(ctx, key, data, r.ttl)
}
