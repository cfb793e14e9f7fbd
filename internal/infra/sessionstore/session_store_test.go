package sessionstore

import (
	"context"
	"errors"
	"testing"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/infra/kvstore"
)

func TestSaveKeepsLastReconciledDate(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(kvstore.NewMemoryStore(), 0)

	record := domain.SessionRecord{UserID: "u1", PetID: "p1", PetName: "Miso", TimeZone: "Europe/Madrid", Locale: "es"}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.MarkReconciled(ctx, "u1", "p1", "2025-06-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record.PetName = "Miso II"
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PetName != "Miso II" {
		t.Errorf("PetName = %q, want Miso II", got.PetName)
	}
	if got.LastReconciledDate != "2025-06-01" {
		t.Errorf("LastReconciledDate = %q, want 2025-06-01", got.LastReconciledDate)
	}
}

func TestSaveRequiresUserAndPet(t *testing.T) {
	repo := NewSessionRepository(kvstore.NewMemoryStore(), 0)

	err := repo.Save(context.Background(), domain.SessionRecord{UserID: "u1"})
	if !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestGetMissingSession(t *testing.T) {
	repo := NewSessionRepository(kvstore.NewMemoryStore(), 0)

	if _, err := repo.Get(context.Background(), "u1", "p1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := repo.MarkReconciled(context.Background(), "u1", "p1", "2025-06-01"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestListSkipsCorruptRecords(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := NewSessionRepository(store, 0)

	for _, id := range []string{"p1", "p2"} {
		if err := repo.Save(ctx, domain.SessionRecord{UserID: "u1", PetID: id}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := store.Set(ctx, "session:u2:p9", []byte("garbage"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Set(ctx, "notification_index:u1:p1:2025-06-01", []byte("[]"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 sessions, got %+v", records)
	}

	if err := repo.Delete(ctx, "u1", "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].PetID != "p2" {
		t.Errorf("expected only p2 after delete, got %+v", records)
	}
}
