package stub

// ScheduleResponse mirrors the schedule API's wire format.
type ScheduleResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	TreatmentType string   `json:"treatmentType"`
	IsActive      bool     `json:"isActive"`
	Frequency     string   `json:"frequency"`
	ReminderTimes []string `json:"reminderTimes"`
	StartDate     string   `json:"startDate,omitempty"`
}

type SchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Count     int                `json:"count"`
}

type SeedRequest struct {
	Buckets []SeedBucket `json:"buckets"`
}

// SeedBucket spreads Pets pets' reminder times evenly over [start_slot, end_slot).
type SeedBucket struct {
	StartSlot          string `json:"start_slot"`
	EndSlot            string `json:"end_slot"`
	Pets               int    `json:"pets"`
	SchedulesPerPet    int    `json:"schedules_per_pet"`
	TreatmentType      string `json:"treatment_type"`
	Frequency          string `json:"frequency"`
	SharedReminderSlot bool   `json:"shared_reminder_slot"`
}

type SessionResponse struct {
	UserID string `json:"userId"`
	PetID  string `json:"petId"`
}

type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Count    int               `json:"count"`
}
