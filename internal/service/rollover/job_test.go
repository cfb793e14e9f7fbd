package rollover

import (
	"context"
	"testing"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/infra/indexstore"
	"github.com/hydracat/notification-scheduler/internal/infra/kvstore"
	"github.com/hydracat/notification-scheduler/internal/infra/schedules"
	"github.com/hydracat/notification-scheduler/internal/infra/sessionstore"
	"github.com/hydracat/notification-scheduler/internal/infra/taskqueue"
	"github.com/hydracat/notification-scheduler/internal/service/content"
	"github.com/hydracat/notification-scheduler/internal/service/reminder"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type countingRecorder struct{ runs []domain.RunRecord }

func (r *countingRecorder) RecordRun(_ context.Context, record domain.RunRecord) error {
	r.runs = append(r.runs, record)
	return nil
}

func (r *countingRecorder) Flush(context.Context) error { return nil }
func (r *countingRecorder) Close() error                { return nil }

func newTestJob(t *testing.T, now time.Time) (*Job, domain.SessionRepository, *taskqueue.MemoryGateway, *countingRecorder) {
	t.Helper()

	localizer, err := content.NewCatalogLocalizer()
	if err != nil {
		t.Fatalf("failed to build localizer: %v", err)
	}

	clock := fixedClock{now: now}
	store := kvstore.NewMemoryStore()
	provider := schedules.NewStaticProvider()
	daily := []domain.Schedule{{
		ID:            "s1",
		Name:          "Fluids",
		TreatmentType: domain.TreatmentFluid,
		Active:        true,
		Frequency:     domain.FrequencyDaily,
		ReminderTimes: []domain.TimeSlot{"20:00"},
	}}
	provider.Set("u1", "p1", daily)
	provider.Set("u2", "p2", daily)

	gateway := taskqueue.NewMemoryGateway().WithClock(clock.Now)
	sessions := sessionstore.NewSessionRepository(store, 0)
	recorder := &countingRecorder{}

	factory := reminder.NewFactory(reminder.Dependencies{
		Schedules: provider,
		Gateway:   gateway,
		Index:     indexstore.NewNotificationIndexRepository(store, 0),
		Localizer: localizer,
		Clock:     clock,
	})

	return NewJob(sessions, factory, recorder, "1 * * * *").WithClock(clock), sessions, gateway, recorder
}

func TestJob_RunOnce(t *testing.T) {
	ctx := context.Background()
	// 00:01 UTC on 2025-06-05 is still 2025-06-04 in Los Angeles.
	now := time.Date(2025, 6, 5, 0, 1, 0, 0, time.UTC)
	job, sessions, gateway, recorder := newTestJob(t, now)

	records := []domain.SessionRecord{
		{UserID: "u1", PetID: "p1", TimeZone: "UTC", LastReconciledDate: "2025-06-04"},
		{UserID: "u2", PetID: "p2", TimeZone: "America/Los_Angeles", LastReconciledDate: "2025-06-04"},
		{UserID: "u3", PetID: "p3", TimeZone: "Not/AZone", LastReconciledDate: "2025-06-04"},
	}
	for _, r := range records {
		if err := sessions.Save(ctx, r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	summary := job.RunOnce(ctx)

	if summary.Checked != 3 || summary.Reconciled != 1 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want checked 3, reconciled 1, skipped 1, failed 1", summary)
	}

	got, err := sessions.Get(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.LastReconciledDate != "2025-06-05" {
		t.Errorf("LastReconciledDate = %q, want 2025-06-05", got.LastReconciledDate)
	}

	got, err = sessions.Get(ctx, "u2", "p2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.LastReconciledDate != "2025-06-04" {
		t.Errorf("LastReconciledDate = %q, want unchanged", got.LastReconciledDate)
	}

	// One slot: today's initial and follow-up, plus two future initials.
	pending, _ := gateway.PendingNotificationRequests(ctx)
	if len(pending) != 4 {
		t.Errorf("pending = %d, want 4", len(pending))
	}

	if len(recorder.runs) != 1 || recorder.runs[0].RunID != summary.RunID || recorder.runs[0].Operation != reminder.OperationReconcile {
		t.Errorf("recorded runs = %+v", recorder.runs)
	}
}

func TestJob_RunOnceIsIdempotentWithinADay(t *testing.T) {
	ctx := context.Background()
	job, sessions, _, _ := newTestJob(t, time.Date(2025, 6, 5, 9, 1, 0, 0, time.UTC))

	if err := sessions.Save(ctx, domain.SessionRecord{UserID: "u1", PetID: "p1", TimeZone: "UTC"}); err != nil {
		t.Fatal(err)
	}

	first := job.RunOnce(ctx)
	second := job.RunOnce(ctx)

	if first.Reconciled != 1 {
		t.Errorf("first run reconciled = %d, want 1", first.Reconciled)
	}
	if second.Reconciled != 0 || second.Skipped != 1 {
		t.Errorf("second run = %+v, want the session skipped", second)
	}
}

func TestJob_StartRejectsInvalidSpec(t *testing.T) {
	job, _, _, _ := newTestJob(t, time.Now())
	job.spec = "not a cron spec"

	if err := job.Start(); err == nil {
		t.Error("Start() should fail for an invalid cron spec")
	}
}

func TestJob_StartAndStop(t *testing.T) {
	job, _, _, _ := newTestJob(t, time.Now())

	if err := job.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}
