// Package rollover reconciles registered sessions again once their local date
// has moved on, so the scheduling window keeps sliding forward without the
// client having to ask.
package rollover

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/service/reminder"
)

const runTimeout = 10 * time.Minute

type Summary struct {
	RunID      string `json:"run_id"`
	Checked    int    `json:"checked"`
	Reconciled int    `json:"reconciled"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

type Job struct {
	sessions domain.SessionRepository
	factory  *reminder.Factory
	recorder domain.RunRecorder
	clock    domain.Clock
	spec     string
	engine   *cron.Cron
}

func NewJob(sessions domain.SessionRepository, factory *reminder.Factory, recorder domain.RunRecorder, spec string) *Job {
	return &Job{
		sessions: sessions,
		factory:  factory,
		recorder: recorder,
		clock:    domain.SystemClock{},
		spec:     spec,
	}
}

func (j *Job) WithClock(clock domain.Clock) *Job {
	j.clock = clock
	return j
}

// Start registers the job on its cron spec. Runs never overlap; a tick that
// arrives while the previous run is still going is dropped.
func (j *Job) Start() error {
	logger := slogCronLogger{}
	j.engine = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := j.engine.AddFunc(j.spec, j.tick); err != nil {
		return fmt.Errorf("failed to register rollover job %q: %w", j.spec, err)
	}

	j.engine.Start()
	slog.Info("rollover job started", slog.String("cron", j.spec))
	return nil
}

// Stop waits for a running pass to finish or ctx to expire.
func (j *Job) Stop(ctx context.Context) {
	if j.engine == nil {
		return
	}
	done := j.engine.Stop()
	select {
	case <-done.Done():
		slog.Info("rollover job stopped")
	case <-ctx.Done():
		slog.Warn("rollover job did not stop in time", slog.String("error", ctx.Err().Error()))
	}
}

func (j *Job) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	j.RunOnce(ctx)
}

// RunOnce reconciles every registered session whose local date differs from
// the date it was last reconciled on.
func (j *Job) RunOnce(ctx context.Context) Summary {
	summary := Summary{RunID: uuid.NewString()}

	records, err := j.sessions.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list sessions for rollover",
			slog.String("run_id", summary.RunID),
			slog.String("error", err.Error()),
		)
		return summary
	}

	now := j.clock.Now()
	for _, record := range records {
		if ctx.Err() != nil {
			break
		}
		summary.Checked++

		session, err := record.Session()
		if err != nil {
			slog.WarnContext(ctx, "skipping invalid session record",
				slog.String("user_id", record.UserID),
				slog.String("pet_id", record.PetID),
				slog.String("error", err.Error()),
			)
			summary.Failed++
			continue
		}

		if !record.NeedsRollover(now, session.Loc()) {
			summary.Skipped++
			continue
		}

		if j.reconcile(ctx, summary.RunID, session, now) {
			summary.Reconciled++
		} else {
			summary.Failed++
		}
	}

	slog.InfoContext(ctx, "rollover run completed",
		slog.String("run_id", summary.RunID),
		slog.Int("checked", summary.Checked),
		slog.Int("reconciled", summary.Reconciled),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)

	return summary
}

func (j *Job) reconcile(ctx context.Context, runID string, session domain.Session, now time.Time) bool {
	result := j.factory.ForSession(session).RescheduleAll(ctx)
	j.record(ctx, runID, session, result)

	if result.Reason != domain.ReasonNone {
		slog.WarnContext(ctx, "rollover reconciliation short-circuited",
			slog.String("user_id", session.UserID),
			slog.String("pet_id", session.PetID),
			slog.String("reason", string(result.Reason)),
		)
		return false
	}

	date := domain.DateKey(now.In(session.Loc()))
	if err := j.sessions.MarkReconciled(ctx, session.UserID, session.PetID, date); err != nil {
		slog.WarnContext(ctx, "failed to mark session reconciled",
			slog.String("user_id", session.UserID),
			slog.String("pet_id", session.PetID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func (j *Job) record(ctx context.Context, runID string, session domain.Session, result *domain.ReconciliationResult) {
	if j.recorder == nil {
		return
	}

	record := domain.RunRecord{
		RunID:           runID,
		Operation:       reminder.OperationReconcile,
		UserID:          session.UserID,
		PetID:           session.PetID,
		RecordedAt:      time.Now(),
		OrphansCanceled: result.OrphansCanceled,
		MissingCount:    result.MissingCount,
		ErrorCount:      len(result.Errors),
		Reason:          string(result.Reason),
	}
	if result.Rescheduled != nil {
		record.Scheduled = result.Rescheduled.Scheduled
		record.Immediate = result.Rescheduled.Immediate
		record.Missed = result.Rescheduled.Missed
	}

	if err := j.recorder.RecordRun(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record rollover run",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
	}
}

// slogCronLogger routes cron's internal logging through slog.
type slogCronLogger struct{}

func (slogCronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}
