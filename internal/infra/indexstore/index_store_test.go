package indexstore

import (
	"context"
	"testing"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/infra/kvstore"
	"github.com/hydracat/notification-scheduler/internal/testutil"
)

var testDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func entry(id int32, scheduleID string, slot domain.TimeSlot, kind domain.NotificationKind) domain.ScheduledNotificationEntry {
	return domain.ScheduledNotificationEntry{
		NotificationID: id,
		ScheduleID:     scheduleID,
		TreatmentType:  domain.TreatmentMedication,
		TimeSlot:       slot,
		Kind:           kind,
	}
}

func TestPutEntryUpsertsByIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationIndexRepository(kvstore.NewMemoryStore(), 0)

	if err := repo.PutEntry(ctx, "u1", "p1", testDate, entry(1, "s1", "08:00", domain.KindInitial)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.PutEntry(ctx, "u1", "p1", testDate, entry(2, "s1", "08:00", domain.KindInitial)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.PutEntry(ctx, "u1", "p1", testDate, entry(3, "s1", "08:00", domain.KindFollowup)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetForDate(ctx, "u1", "p1", testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(got), got)
	}
	if got[0].NotificationID != 2 {
		t.Errorf("expected upsert to keep latest id 2, got %d", got[0].NotificationID)
	}
}

func TestPutEntryRejectsInvalid(t *testing.T) {
	repo := NewNotificationIndexRepository(kvstore.NewMemoryStore(), 0)

	err := repo.PutEntry(context.Background(), "u1", "p1", testDate, entry(1, "", "08:00", domain.KindInitial))
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEntriesAreBucketedBySessionAndDate(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationIndexRepository(kvstore.NewMemoryStore(), 0)

	if err := repo.PutEntry(ctx, "u1", "p1", testDate, entry(1, "s1", "08:00", domain.KindInitial)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		user  string
		pet   string
		date  time.Time
		count int
	}{
		{name: "same bucket", user: "u1", pet: "p1", date: testDate.Add(20 * time.Hour), count: 1},
		{name: "other day", user: "u1", pet: "p1", date: testDate.AddDate(0, 0, 1), count: 0},
		{name: "other pet", user: "u1", pet: "p2", date: testDate, count: 0},
		{name: "other user", user: "u2", pet: "p1", date: testDate, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetForDate(ctx, tt.user, tt.pet, tt.date)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.count {
				t.Errorf("expected %d entries, got %d", tt.count, len(got))
			}
		})
	}
}

func TestRemoveOperations(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationIndexRepository(kvstore.NewMemoryStore(), 0)

	seed := []domain.ScheduledNotificationEntry{
		entry(1, "s1", "08:00", domain.KindInitial),
		entry(2, "s1", "08:00", domain.KindFollowup),
		entry(1, "s2", "08:00", domain.KindInitial),
		entry(3, "s1", "20:00", domain.KindInitial),
	}
	for _, e := range seed {
		if err := repo.PutEntry(ctx, "u1", "p1", testDate, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	removed, err := repo.RemoveEntryBy(ctx, "u1", "p1", testDate, "s2", "08:00", domain.KindInitial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("RemoveEntryBy removed %d, want 1", removed)
	}

	removed, err = repo.RemoveEntryBy(ctx, "u1", "p1", testDate, "s2", "08:00", domain.KindInitial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 0 {
		t.Errorf("second RemoveEntryBy removed %d, want 0", removed)
	}

	removed, err = repo.RemoveAllForSchedule(ctx, "u1", "p1", testDate, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 3 {
		t.Errorf("RemoveAllForSchedule removed %d, want 3", removed)
	}

	got, err := repo.GetForDate(ctx, "u1", "p1", testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty index, got %+v", got)
	}
}

func TestGetForDateValidatedHealsIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationIndexRepository(kvstore.NewMemoryStore(), 0)

	for _, e := range []domain.ScheduledNotificationEntry{
		entry(1, "s1", "08:00", domain.KindInitial),
		entry(2, "s1", "10:00", domain.KindFollowup),
	} {
		if err := repo.PutEntry(ctx, "u1", "p1", testDate, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.GetForDateValidated(ctx, "u1", "p1", testDate, map[int32]struct{}{2: {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].NotificationID != 2 {
		t.Fatalf("expected only id 2, got %+v", got)
	}

	persisted, err := repo.GetForDate(ctx, "u1", "p1", testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(persisted) != 1 {
		t.Errorf("expected healed index to be persisted, got %+v", persisted)
	}
}

func TestCorruptIndexFailsOpen(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := NewNotificationIndexRepository(store, 0)

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{{{"},
		{name: "wrong shape", data: `{"notificationId":1}`},
		{name: "entry missing kind", data: `[{"notificationId":1,"scheduleId":"s1","treatmentType":"fluid","timeSlot":"08:00"}]`},
		{name: "bad time slot", data: `[{"notificationId":1,"scheduleId":"s1","treatmentType":"fluid","timeSlot":"8am","kind":"initial"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Set(ctx, indexKey("u1", "p1", testDate), []byte(tt.data), 0); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := repo.GetForDate(ctx, "u1", "p1", testDate)
			if err != nil {
				t.Fatalf("expected fail-open read, got error %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected empty result, got %+v", got)
			}
		})
	}
}

func TestClearForDateWithRedis(t *testing.T) {
	ctx := context.Background()

	mr, client := testutil.SetupMiniredis(t)

	repo := NewNotificationIndexRepository(kvstore.NewRedisStore(client), 36*time.Hour)

	if err := repo.PutEntry(ctx, "user/1", "pet 1", testDate, entry(1, "s1", "08:00", domain.KindInitial)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := "notification_index:user%2F1:pet%201:2025-06-01"
	if !mr.Exists(key) {
		t.Fatalf("expected key %q, have %v", key, mr.Keys())
	}
	if ttl := mr.TTL(key); ttl != 36*time.Hour {
		t.Errorf("expected ttl 36h, got %v", ttl)
	}

	if err := repo.ClearForDate(ctx, "user/1", "pet 1", testDate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(key) {
		t.Error("expected key to be deleted")
	}
}
