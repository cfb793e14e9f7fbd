package schedules

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

var _ domain.ScheduleProvider = (*StaticProvider)(nil)

type staticFile struct {
	Pets []staticPet `json:"pets"`
}

type staticPet struct {
	UserID    string             `json:"userId"`
	PetID     string             `json:"petId"`
	Schedules []ScheduleResponse `json:"schedules"`
}

// StaticProvider serves schedules loaded from a JSON file.
type StaticProvider struct {
	mu   sync.RWMutex
	pets map[string][]ScheduleResponse
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{pets: make(map[string][]ScheduleResponse)}
}

func LoadStaticProvider(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedules file: %w", err)
	}

	var f staticFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode schedules file: %w", err)
	}

	p := NewStaticProvider()
	for _, pet := range f.Pets {
		p.pets[staticKey(pet.UserID, pet.PetID)] = pet.Schedules
	}
	return p, nil
}

func staticKey(userID, petID string) string {
	return userID + "\x00" + petID
}

// Set replaces the schedules of one pet.
func (p *StaticProvider) Set(userID, petID string, schedules []domain.Schedule) {
	resp := make([]ScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		resp = append(resp, fromDomain(s))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pets[staticKey(userID, petID)] = resp
}

func (p *StaticProvider) ActiveSchedules(ctx context.Context, userID, petID string) ([]domain.Schedule, error) {
	p.mu.RLock()
	resp := p.pets[staticKey(userID, petID)]
	p.mu.RUnlock()

	return activeSchedules(ctx, resp, "user_id", userID, "pet_id", petID), nil
}
