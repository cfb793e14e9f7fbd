package domain

import "errors"

var (
	ErrInvalidEntry         = errors.New("invalid scheduled notification entry")
	ErrInvalidTimeSlot      = errors.New("invalid time slot")
	ErrInvalidTreatmentType = errors.New("invalid treatment type")
	ErrInvalidKind          = errors.New("invalid notification kind")
	ErrMissingField         = errors.New("missing required field")
	ErrInvalidPayload       = errors.New("invalid notification payload")
	ErrInvalidFrequency     = errors.New("invalid schedule frequency")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidSession       = errors.New("invalid session")
)
