package domain

import "fmt"

// TreatmentType is the kind of treatment a schedule reminds about.
type TreatmentType string

const (
	TreatmentMedication TreatmentType = "medication"
	TreatmentFluid      TreatmentType = "fluid"
)

func (t TreatmentType) String() string {
	return string(t)
}

func (t TreatmentType) IsValid() bool {
	return t == TreatmentMedication || t == TreatmentFluid
}

func ParseTreatmentType(s string) (TreatmentType, error) {
	t := TreatmentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTreatmentType, s)
	}
	return t, nil
}

// NotificationKind distinguishes the first reminder for a slot from its follow-up.
type NotificationKind string

const (
	KindInitial  NotificationKind = "initial"
	KindFollowup NotificationKind = "followup"
)

func (k NotificationKind) String() string {
	return string(k)
}

func (k NotificationKind) IsValid() bool {
	return k == KindInitial || k == KindFollowup
}

func ParseNotificationKind(s string) (NotificationKind, error) {
	k := NotificationKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}
