package stub

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunIDHeader selects which seeded run a schedule lookup reads from.
const RunIDHeader = "X-Run-ID"

type Handler struct {
	storage *ScheduleStorage
}

func NewHandler(storage *ScheduleStorage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/loadtest/reset", h.HandleReset)
	r.POST("/loadtest/seed", h.HandleSeed)
	r.GET("/loadtest/sessions", h.HandleSessions)
	r.GET("/api/v1/users/:userId/pets/:petId/schedules", h.HandleGetSchedules)
}

func (h *Handler) HandleReset(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	h.storage.Reset(runID)

	slog.Info("reset data", slog.String("run_id", runID))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": runID,
	})
}

func (h *Handler) HandleSeed(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totalPets := 0
	totalSchedules := 0
	for _, sb := range req.Buckets {
		start, err := parseSlot(sb.StartSlot)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_slot: " + sb.StartSlot})
			return
		}
		end, err := parseSlot(sb.EndSlot)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_slot: " + sb.EndSlot})
			return
		}

		treatmentType := sb.TreatmentType
		if treatmentType == "" {
			treatmentType = "medication"
		}
		frequency := sb.Frequency
		if frequency == "" {
			frequency = "daily"
		}
		perPet := sb.SchedulesPerPet
		if perPet <= 0 {
			perPet = 1
		}

		totalSchedules += h.storage.AddBucket(runID, &Bucket{
			Start:           start,
			End:             end,
			Pets:            sb.Pets,
			SchedulesPerPet: perPet,
			TreatmentType:   treatmentType,
			Frequency:       frequency,
			SharedSlot:      sb.SharedReminderSlot,
		})
		totalPets += sb.Pets
	}

	slog.Info("seeded data",
		slog.String("run_id", runID),
		slog.Int("bucket_count", len(req.Buckets)),
		slog.Int("pet_count", totalPets),
		slog.Int("schedule_count", totalSchedules),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":         "seeded",
		"run_id":         runID,
		"bucket_count":   len(req.Buckets),
		"pet_count":      totalPets,
		"schedule_count": totalSchedules,
	})
}

// GET /loadtest/sessions?run_id=...
func (h *Handler) HandleSessions(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")
	sessions := h.storage.Sessions(runID)

	c.JSON(http.StatusOK, SessionsResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}

// GET /api/v1/users/:userId/pets/:petId/schedules
// Serves the schema the scheduler's schedule client expects.
func (h *Handler) HandleGetSchedules(c *gin.Context) {
	runID := c.GetHeader(RunIDHeader)
	if runID == "" {
		runID = "default"
	}
	userID := c.Param("userId")
	petID := c.Param("petId")

	schedules := h.storage.Schedules(runID, userID, petID)

	slog.Debug("get schedules",
		slog.String("run_id", runID),
		slog.String("user_id", userID),
		slog.String("pet_id", petID),
		slog.Int("count", len(schedules)),
	)

	c.JSON(http.StatusOK, SchedulesResponse{
		Schedules: schedules,
		Count:     len(schedules),
	})
}
