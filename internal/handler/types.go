package handler

import (
	"github.com/hydracat/notification-scheduler/internal/infra/schedules"
)

type SessionRequest struct {
	UserID   string `json:"userId" binding:"required"`
	PetID    string `json:"petId" binding:"required"`
	PetName  string `json:"petName"`
	TimeZone string `json:"timeZone"`
	Locale   string `json:"locale"`
}

type CancelScheduleRequest struct {
	SessionRequest
	Schedule schedules.ScheduleResponse `json:"schedule" binding:"required"`
}

type CancelSlotRequest struct {
	SessionRequest
	TimeSlot string `json:"timeSlot" binding:"required"`
	Kind     string `json:"kind"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type RunResponse struct {
	RunID  string `json:"run_id"`
	Result any    `json:"result"`
}
