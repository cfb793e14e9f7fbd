package domain

import "time"

// Session is the signed-in user and the pet profile notifications are scheduled for.
type Session struct {
	UserID   string
	PetID    string
	PetName  string
	Location *time.Location
	Locale   string
}

func (s Session) Valid() bool {
	return s.UserID != "" && s.PetID != ""
}

func (s Session) Loc() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
