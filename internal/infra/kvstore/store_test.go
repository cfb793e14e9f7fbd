package kvstore

import (
	"context"
	"errors"
	"testing"
)

// testStoreBasics exercises the behavior every backend shares.
func testStoreBasics(ctx context.Context, t *testing.T, store Store) {
	t.Helper()

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		if _, err := store.Get(ctx, "absent"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := store.Set(ctx, "idx:u1:p1:2025-06-01", []byte(`[1]`), 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := store.Get(ctx, "idx:u1:p1:2025-06-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != `[1]` {
			t.Errorf("got %q, want [1]", got)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		if err := store.Set(ctx, "idx:u1:p1:2025-06-01", []byte(`[2]`), 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := store.Get(ctx, "idx:u1:p1:2025-06-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != `[2]` {
			t.Errorf("got %q, want [2]", got)
		}
	})

	t.Run("keys by prefix", func(t *testing.T) {
		for _, key := range []string{"idx:u1:p1:2025-06-02", "idx:u2:p1:2025-06-01", "session:u1:p1"} {
			if err := store.Set(ctx, key, []byte(`{}`), 0); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		keys, err := store.Keys(ctx, "idx:u1:")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(keys) != 2 {
			t.Fatalf("expected 2 keys, got %v", keys)
		}
		for _, key := range keys {
			if key != "idx:u1:p1:2025-06-01" && key != "idx:u1:p1:2025-06-02" {
				t.Errorf("unexpected key %q", key)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, "idx:u1:p1:2025-06-01"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := store.Get(ctx, "idx:u1:p1:2025-06-01"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, "never-existed"); err != nil {
			t.Errorf("deleting a missing key should succeed, got %v", err)
		}
	})
}
