package domain

import "time"

// Reason explains why an operation short-circuited. Empty means it ran to completion.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonNoUserOrPet          Reason = "no_user_or_pet"
	ReasonSchedulesUnavailable Reason = "schedules_unavailable"
)

// SchedulingResult summarizes one scheduling pass.
type SchedulingResult struct {
	Scheduled int      `json:"scheduled"`
	Immediate int      `json:"immediate"`
	Missed    int      `json:"missed"`
	Errors    []string `json:"errors"`
	Reason    Reason   `json:"reason,omitempty"`
}

// Merge adds other's counts and errors into r.
func (r *SchedulingResult) Merge(other *SchedulingResult) {
	if other == nil {
		return
	}
	r.Scheduled += other.Scheduled
	r.Immediate += other.Immediate
	r.Missed += other.Missed
	r.Errors = append(r.Errors, other.Errors...)
}

type ReconciliationResult struct {
	PendingCount    int               `json:"pending_count"`
	IndexedCount    int               `json:"indexed_count"`
	OrphansCanceled int               `json:"orphans_canceled"`
	MissingCount    int               `json:"missing_count"`
	IndexCleared    bool              `json:"index_cleared"`
	Rescheduled     *SchedulingResult `json:"rescheduled,omitempty"`
	Errors          []string          `json:"errors"`
	Reason          Reason            `json:"reason,omitempty"`
}

type CancellationResult struct {
	Attempts       int               `json:"attempts"`
	Canceled       int               `json:"canceled"`
	EntriesRemoved int               `json:"entries_removed"`
	Rescheduled    *SchedulingResult `json:"rescheduled,omitempty"`
	Errors         []string          `json:"errors"`
	Reason         Reason            `json:"reason,omitempty"`
}

type WeeklySummaryResult struct {
	NotificationID int32     `json:"notification_id,omitempty"`
	ScheduledFor   time.Time `json:"scheduled_for,omitempty"`
	Scheduled      bool      `json:"scheduled"`
	AlreadyPending bool      `json:"already_pending"`
	Canceled       int       `json:"canceled"`
	Errors         []string  `json:"errors"`
	Reason         Reason    `json:"reason,omitempty"`
}
