// Package sessionstore remembers which sessions the service has seen, so the
// rollover job can reconcile them when their local date changes.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/infra/kvstore"
)

const (
	sessionKeyPrefix = "session:"

	DefaultTTL = 30 * 24 * time.Hour // sessions idle for a month stop being reconciled
)

type sessionRecord struct {
	UserID             string    `json:"user_id"`
	PetID              string    `json:"pet_id"`
	PetName            string    `json:"pet_name"`
	TimeZone           string    `json:"time_zone"`
	Locale             string    `json:"locale"`
	LastReconciledDate string    `json:"last_reconciled_date"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type sessionRepository struct {
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionRepository(store kvstore.Store, ttl time.Duration) domain.SessionRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &sessionRepository{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

func sessionKey(userID, petID string) string {
	return sessionKeyPrefix + url.PathEscape(userID) + ":" + url.PathEscape(petID)
}

// Save upserts the session. The last reconciled date is kept when the new record
// does not carry one.
func (r *sessionRepository) Save(ctx context.Context, record domain.SessionRecord) error {
	if record.UserID == "" || record.PetID == "" {
		return fmt.Errorf("%w: user and pet are required", domain.ErrInvalidSession)
	}

	if record.LastReconciledDate == "" {
		existing, err := r.Get(ctx, record.UserID, record.PetID)
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		if existing != nil {
			record.LastReconciledDate = existing.LastReconciledDate
		}
	}

	record.UpdatedAt = r.now()
	return r.put(ctx, record)
}

func (r *sessionRepository) Get(ctx context.Context, userID, petID string) (*domain.SessionRecord, error) {
	data, err := r.store.Get(ctx, sessionKey(userID, petID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	record, err := decode(data)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *sessionRepository) List(ctx context.Context) ([]domain.SessionRecord, error) {
	keys, err := r.store.Keys(ctx, sessionKeyPrefix)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SessionRecord, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, kvstore.ErrNotFound) {
				continue
			}
			return nil, err
		}

		record, err := decode(data)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable session record",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}
		records = append(records, *record)
	}

	return records, nil
}

func (r *sessionRepository) MarkReconciled(ctx context.Context, userID, petID, date string) error {
	record, err := r.Get(ctx, userID, petID)
	if err != nil {
		return err
	}

	record.LastReconciledDate = date
	record.UpdatedAt = r.now()
	return r.put(ctx, *record)
}

func (r *sessionRepository) Delete(ctx context.Context, userID, petID string) error {
	return r.store.Delete(ctx, sessionKey(userID, petID))
}

func (r *sessionRepository) put(ctx context.Context, record domain.SessionRecord) error {
	data, err := json.Marshal(sessionRecord{
		UserID:             record.UserID,
		PetID:              record.PetID,
		PetName:            record.PetName,
		TimeZone:           record.TimeZone,
		Locale:             record.Locale,
		LastReconciledDate: record.LastReconciledDate,
		UpdatedAt:          record.UpdatedAt,
	})
	if err != nil {
		return err
	}

	return r.store.Set(ctx, sessionKey(record.UserID, record.PetID), data, r.ttl)
}

func decode(data []byte) (*domain.SessionRecord, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSession, err)
	}

	return &domain.SessionRecord{
		UserID:             rec.UserID,
		PetID:              rec.PetID,
		PetName:            rec.PetName,
		TimeZone:           rec.TimeZone,
		Locale:             rec.Locale,
		LastReconciledDate: rec.LastReconciledDate,
		UpdatedAt:          rec.UpdatedAt,
	}, nil
}
