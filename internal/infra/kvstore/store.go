// Package kvstore is a minimal string-keyed blob store with per-key expiry.
// Values are opaque bytes; callers own the encoding.
package kvstore

import (
	"context"
	"time"
)

// Store is implemented by the Redis, SQLite and in-memory backends.
// A ttl of zero means the key never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
