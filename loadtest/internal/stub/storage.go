package stub

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"
)

type petKey struct {
	userID string
	petID  string
}

// Bucket is one seeded group of pets whose reminders fall inside a slot range.
type Bucket struct {
	Start           time.Duration // offset from midnight
	End             time.Duration
	Pets            int
	SchedulesPerPet int
	TreatmentType   string
	Frequency       string
	// SharedSlot gives all schedules of a pet the same reminder time, so they bundle.
	SharedSlot bool
}

type ScheduleStorage struct {
	mu        sync.RWMutex
	schedules map[string]map[petKey][]ScheduleResponse // runID -> pet -> schedules
}

func NewScheduleStorage() *ScheduleStorage {
	return &ScheduleStorage{
		schedules: make(map[string]map[petKey][]ScheduleResponse),
	}
}

func (s *ScheduleStorage) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schedules, runID)
}

func (s *ScheduleStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = make(map[string]map[petKey][]ScheduleResponse)
}

// AddBucket generates the bucket's pets and returns how many schedules it created.
func (s *ScheduleStorage) AddBucket(runID string, bucket *Bucket) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pets := s.schedules[runID]
	if pets == nil {
		pets = make(map[petKey][]ScheduleResponse)
		s.schedules[runID] = pets
	}

	offset := len(pets)
	created := 0
	for i := 0; i < bucket.Pets; i++ {
		key := petKey{
			userID: fmt.Sprintf("%s-user-%d", runID, offset+i),
			petID:  fmt.Sprintf("pet-%d", offset+i),
		}
		pets[key] = append(pets[key], generateSchedules(runID, key, bucket, i)...)
		created += bucket.SchedulesPerPet
	}

	return created
}

func generateSchedules(runID string, key petKey, bucket *Bucket, index int) []ScheduleResponse {
	count := bucket.SchedulesPerPet
	if count <= 0 {
		return nil
	}

	span := bucket.End - bucket.Start
	if span <= 0 {
		span = time.Minute
	}
	total := bucket.Pets * count
	interval := span / time.Duration(total)
	if interval < time.Minute {
		interval = time.Minute
	}

	schedules := make([]ScheduleResponse, 0, count)
	for j := 0; j < count; j++ {
		position := index*count + j
		if bucket.SharedSlot {
			position = index * count
		}
		at := bucket.Start + time.Duration(position)*interval
		if at >= bucket.End {
			at = bucket.Start + (at-bucket.Start)%span
		}

		schedules = append(schedules, ScheduleResponse{
			ID:            generateScheduleID(runID, key, j),
			Name:          fmt.Sprintf("Treatment %d", j+1),
			TreatmentType: bucket.TreatmentType,
			IsActive:      true,
			Frequency:     bucket.Frequency,
			ReminderTimes: []string{formatSlot(at)},
		})
	}

	return schedules
}

func (s *ScheduleStorage) Schedules(runID, userID, petID string) []ScheduleResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := s.schedules[runID][petKey{userID: userID, petID: petID}]
	if schedules == nil {
		return []ScheduleResponse{}
	}
	return append([]ScheduleResponse(nil), schedules...)
}

// Sessions lists the seeded pets of a run in a stable order.
func (s *ScheduleStorage) Sessions(runID string) []SessionResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]SessionResponse, 0, len(s.schedules[runID]))
	for key := range s.schedules[runID] {
		sessions = append(sessions, SessionResponse{UserID: key.userID, PetID: key.petID})
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].UserID != sessions[j].UserID {
			return sessions[i].UserID < sessions[j].UserID
		}
		return sessions[i].PetID < sessions[j].PetID
	})
	return sessions
}

func formatSlot(d time.Duration) string {
	minutes := int(d/time.Minute) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func parseSlot(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func generateScheduleID(runID string, key petKey, index int) string {
	input := fmt.Sprintf("%s-%s-%s-%d", runID, key.userID, key.petID, index)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("sched-%s", hex.EncodeToString(hash[:8]))
}
