// Package slotid derives platform notification ids from the logical identity
// of a reminder, so the same reminder always maps to the same id.
package slotid

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

// Domain prefixes keep treatment and summary ids in separate hash spaces.
// The version suffix allows changing the derivation later.
const (
	domainTreatment     = "hydracat/notification/treatment/v1"
	domainWeeklySummary = "hydracat/notification/weekly-summary/v1"
)

// Generate returns the notification id for a reminder of (user, pet, slot, kind)
// on the calendar date of date. The result is always non-negative.
func Generate(userID, petID string, slot domain.TimeSlot, kind domain.NotificationKind, date time.Time) int32 {
	return hashWithDomain(domainTreatment,
		userID,
		petID,
		slot.String(),
		kind.String(),
		domain.DateKey(date),
	)
}

// WeeklySummary returns the notification id of the weekly summary for the week
// starting on weekStart.
func WeeklySummary(userID, petID string, weekStart time.Time) int32 {
	return hashWithDomain(domainWeeklySummary,
		userID,
		petID,
		domain.DateKey(weekStart),
	)
}

// hashWithDomain computes SHA256(domain 0x00 field 0x00 field ...) and keeps the
// first 31 bits so the id fits a signed 32-bit platform id.
func hashWithDomain(prefix string, fields ...string) int32 {
	h := sha256.New()
	h.Write([]byte(prefix))
	for _, f := range fields {
		h.Write([]byte{0x00})
		h.Write([]byte(f))
	}
	sum := h.Sum(nil)

	return int32(binary.BigEndian.Uint32(sum[:4]) & 0x7fffffff)
}
