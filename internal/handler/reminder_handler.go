package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/observability/metrics"
	"github.com/hydracat/notification-scheduler/internal/service/reminder"
)

// RunIDHeader lets a caller name the run, e.g. a load test tagging its requests.
const RunIDHeader = "X-Run-ID"

const runIDKey = "run_id"

// ScheduleCacheInvalidator drops cached schedules after the caller reports a change.
type ScheduleCacheInvalidator interface {
	Invalidate(ctx context.Context, userID, petID string) error
}

type Defaults struct {
	TimeZone string
	Locale   string
}

type ReminderHandler struct {
	factory     *reminder.Factory
	sessions    domain.SessionRepository
	recorder    domain.RunRecorder
	invalidator ScheduleCacheInvalidator
	defaults    Defaults
	clock       domain.Clock
}

func NewReminderHandler(
	factory *reminder.Factory,
	sessions domain.SessionRepository,
	recorder domain.RunRecorder,
	invalidator ScheduleCacheInvalidator,
	defaults Defaults,
) *ReminderHandler {
	return &ReminderHandler{
		factory:     factory,
		sessions:    sessions,
		recorder:    recorder,
		invalidator: invalidator,
		defaults:    defaults,
		clock:       domain.SystemClock{},
	}
}

func (h *ReminderHandler) WithClock(clock domain.Clock) *ReminderHandler {
	h.clock = clock
	return h
}

// Register mounts the reminder routes on r.
func (h *ReminderHandler) Register(r gin.IRoutes) {
	r.POST("/reminders/schedule", h.HandleSchedule)
	r.POST("/reminders/refresh", h.HandleRefresh)
	r.POST("/reminders/reconcile", h.HandleReconcile)
	r.POST("/reminders/cancel-schedule", h.HandleCancelSchedule)
	r.POST("/reminders/cancel-slot", h.HandleCancelSlot)
	r.POST("/reminders/cancel-all", h.HandleCancelAll)
	r.POST("/weekly-summary/schedule", h.HandleScheduleWeeklySummary)
	r.POST("/weekly-summary/cancel", h.HandleCancelWeeklySummary)
}

func (h *ReminderHandler) HandleSchedule(c *gin.Context) {
	var req SessionRequest
	coord, ok := h.bindSession(c, &req, &req)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	result := coord.ScheduleAllForToday(ctx)
	h.markReconciled(ctx, coord.Session(), result.Reason)
	h.respond(c, reminder.OperationSchedule, coord.Session(), schedulingRecord(result), result)
}

func (h *ReminderHandler) HandleRefresh(c *gin.Context) {
	var req SessionRequest
	coord, ok := h.bindSession(c, &req, &req)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	h.invalidateSchedules(ctx, coord.Session())
	result := coord.RefreshAll(ctx)
	h.markReconciled(ctx, coord.Session(), result.Reason)
	h.respond(c, reminder.OperationRefresh, coord.Session(), schedulingRecord(result), result)
}

func (h *ReminderHandler) HandleReconcile(c *gin.Context) {
	var req SessionRequest
	coord, ok := h.bindSession(c, &req, &req)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	result := coord.RescheduleAll(ctx)
	h.markReconciled(ctx, coord.Session(), result.Reason)
	h.respond(c, reminder.OperationReconcile, coord.Session(), reconciliationRecord(result), result)
}

func (h *ReminderHandler) HandleCancelSchedule(c *gin.Context) {
	var req CancelScheduleRequest
	coord, ok := h.bindSession(c, &req, &req.SessionRequest)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	schedule, err := req.Schedule.ToDomain()
	if err != nil {
		slog.WarnContext(ctx, "invalid schedule in cancel request",
			slog.String("schedule_id", req.Schedule.ID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if schedule.ID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "schedule.id is required")
		return
	}

	h.invalidateSchedules(ctx, coord.Session())
	result := coord.CancelForSchedule(ctx, schedule)
	h.respond(c, reminder.OperationCancelSchedule, coord.Session(), cancellationRecord(result), result)
}

func (h *ReminderHandler) HandleCancelSlot(c *gin.Context) {
	var req CancelSlotRequest
	coord, ok := h.bindSession(c, &req, &req.SessionRequest)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	slot, err := domain.ParseTimeSlot(req.TimeSlot)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	kind := domain.KindInitial
	if req.Kind != "" {
		if kind, err = domain.ParseNotificationKind(req.Kind); err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
	}

	result := coord.CancelSlot(ctx, slot, kind)
	h.respond(c, reminder.OperationCancelSlot, coord.Session(), cancellationRecord(result), result)
}

// HandleCancelAll cancels everything for the session and forgets it, so the
// rollover job stops reconciling it.
func (h *ReminderHandler) HandleCancelAll(c *gin.Context) {
	var req SessionRequest
	coord, ok := h.bindSession(c, &req, &req)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	session := coord.Session()

	result := coord.CancelAll(ctx)
	if err := h.sessions.Delete(ctx, session.UserID, session.PetID); err != nil {
		slog.WarnContext(ctx, "failed to forget session",
			slog.String("user_id", session.UserID),
			slog.String("pet_id", session.PetID),
			slog.String("error", err.Error()),
		)
	}
	h.respond(c, reminder.OperationCancelAll, session, cancellationRecord(result), result)
}

func (h *ReminderHandler) HandleScheduleWeeklySummary(c *gin.Context) {
	var req SessionRequest
	coord, ok := h.bindSession(c, &req, &req)
	if !ok {
		return
	}

	result := coord.ScheduleWeeklySummary(c.Request.Context())
	h.respond(c, reminder.OperationScheduleWeekly, coord.Session(), weeklyRecord(result), result)
}

func (h *ReminderHandler) HandleCancelWeeklySummary(c *gin.Context) {
	var req SessionRequest
	coord, ok := h.bindSession(c, &req, &req)
	if !ok {
		return
	}

	result := coord.CancelWeeklySummary(c.Request.Context())
	h.respond(c, reminder.OperationCancelWeeklySummary, coord.Session(), weeklyRecord(result), result)
}

// bindSession decodes the body into req, registers the session and builds its coordinator.
func (h *ReminderHandler) bindSession(c *gin.Context, req any, session *SessionRequest) (*reminder.Coordinator, bool) {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(req); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return nil, false
	}

	runID := c.GetHeader(RunIDHeader)
	if runID != "" {
		ctx = metrics.WithLoadtestRunID(ctx, runID)
		c.Request = c.Request.WithContext(ctx)
	} else {
		runID = uuid.NewString()
	}
	c.Set(runIDKey, runID)

	record := domain.SessionRecord{
		UserID:    session.UserID,
		PetID:     session.PetID,
		PetName:   session.PetName,
		TimeZone:  session.TimeZone,
		Locale:    session.Locale,
		UpdatedAt: h.clock.Now(),
	}
	if record.TimeZone == "" {
		record.TimeZone = h.defaults.TimeZone
	}
	if record.Locale == "" {
		record.Locale = h.defaults.Locale
	}

	sess, err := record.Session()
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return nil, false
	}

	if err := h.sessions.Save(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to register session",
			slog.String("user_id", record.UserID),
			slog.String("pet_id", record.PetID),
			slog.String("error", err.Error()),
		)
	}

	return h.factory.ForSession(sess), true
}

func (h *ReminderHandler) markReconciled(ctx context.Context, session domain.Session, reason domain.Reason) {
	if reason != domain.ReasonNone {
		return
	}
	date := domain.DateKey(h.clock.Now().In(session.Loc()))
	if err := h.sessions.MarkReconciled(ctx, session.UserID, session.PetID, date); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		slog.WarnContext(ctx, "failed to mark session reconciled",
			slog.String("user_id", session.UserID),
			slog.String("pet_id", session.PetID),
			slog.String("error", err.Error()),
		)
	}
}

func (h *ReminderHandler) invalidateSchedules(ctx context.Context, session domain.Session) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.Invalidate(ctx, session.UserID, session.PetID); err != nil {
		slog.WarnContext(ctx, "failed to invalidate schedule cache",
			slog.String("user_id", session.UserID),
			slog.String("pet_id", session.PetID),
			slog.String("error", err.Error()),
		)
	}
}

func (h *ReminderHandler) respond(c *gin.Context, operation string, session domain.Session, record domain.RunRecord, result any) {
	ctx := c.Request.Context()

	runID := c.GetString(runIDKey)

	record.RunID = runID
	record.Operation = operation
	record.UserID = session.UserID
	record.PetID = session.PetID
	record.RecordedAt = time.Now()

	if h.recorder != nil {
		if err := h.recorder.RecordRun(ctx, record); err != nil {
			slog.WarnContext(ctx, "failed to record run",
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
			)
		}
	}

	c.JSON(http.StatusOK, RunResponse{RunID: runID, Result: result})
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}
