package domain

import (
	"context"
	"fmt"
	"time"
)

// SessionRecord is what the service remembers about a session so that it can
// reconcile it again after the session's local date rolls over.
type SessionRecord struct {
	UserID             string
	PetID              string
	PetName            string
	TimeZone           string
	Locale             string
	LastReconciledDate string
	UpdatedAt          time.Time
}

// Session resolves the record's time zone into a Session.
func (r SessionRecord) Session() (Session, error) {
	if r.UserID == "" || r.PetID == "" {
		return Session{}, fmt.Errorf("%w: user and pet are required", ErrInvalidSession)
	}

	loc := time.UTC
	if r.TimeZone != "" {
		l, err := time.LoadLocation(r.TimeZone)
		if err != nil {
			return Session{}, fmt.Errorf("%w: time zone %q: %w", ErrInvalidSession, r.TimeZone, err)
		}
		loc = l
	}

	return Session{
		UserID:   r.UserID,
		PetID:    r.PetID,
		PetName:  r.PetName,
		Location: loc,
		Locale:   r.Locale,
	}, nil
}

// NeedsRollover reports whether the session's local date at now differs from the
// date it was last reconciled on.
func (r SessionRecord) NeedsRollover(now time.Time, loc *time.Location) bool {
	return r.LastReconciledDate != DateKey(now.In(loc))
}

type SessionRepository interface {
	Save(ctx context.Context, record SessionRecord) error
	Get(ctx context.Context, userID, petID string) (*SessionRecord, error)
	List(ctx context.Context) ([]SessionRecord, error)
	MarkReconciled(ctx context.Context, userID, petID, date string) error
	Delete(ctx context.Context, userID, petID string) error
}
