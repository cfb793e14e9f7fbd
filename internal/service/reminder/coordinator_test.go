package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/infra/indexstore"
	"github.com/hydracat/notification-scheduler/internal/infra/kvstore"
	"github.com/hydracat/notification-scheduler/internal/service/content"
	"github.com/hydracat/notification-scheduler/internal/service/slotid"
)

const (
	testUser = "user-1"
	testPet  = "pet-1"
)

// 2025-06-04 is a Wednesday.
var testToday = time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fixture struct {
	gateway   *domain.MockNotificationGateway
	schedules *domain.MockScheduleProvider
	index     domain.NotificationIndexRepository
	coord     *Coordinator
}

func newFixture(t *testing.T, now time.Time, session domain.Session) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	localizer, err := content.NewCatalogLocalizer()
	if err != nil {
		t.Fatalf("failed to build localizer: %v", err)
	}

	f := &fixture{
		gateway:   domain.NewMockNotificationGateway(ctrl),
		schedules: domain.NewMockScheduleProvider(ctrl),
		index:     indexstore.NewNotificationIndexRepository(kvstore.NewMemoryStore(), 0),
	}
	f.coord = New(Dependencies{
		Session:   session,
		Schedules: f.schedules,
		Gateway:   f.gateway,
		Index:     f.index,
		Localizer: localizer,
		Clock:     fixedClock{now: now},
	})
	return f
}

func testSession() domain.Session {
	return domain.Session{
		UserID:   testUser,
		PetID:    testPet,
		PetName:  "Miso",
		Location: time.UTC,
		Locale:   "en",
	}
}

func at(hour, minute int) time.Time {
	return testToday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func daily(id string, treatment domain.TreatmentType, slots ...domain.TimeSlot) domain.Schedule {
	return domain.Schedule{
		ID:            id,
		Name:          id,
		TreatmentType: treatment,
		Active:        true,
		Frequency:     domain.FrequencyDaily,
		ReminderTimes: slots,
	}
}

// expectSchedules records every ScheduleAt call; fail, when set, decides which calls error.
func (f *fixture) expectSchedules(times int, fail func(*domain.NotificationRequest) error) *[]*domain.NotificationRequest {
	var reqs []*domain.NotificationRequest
	f.gateway.EXPECT().
		ScheduleAt(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.NotificationRequest) error {
			reqs = append(reqs, req)
			if fail != nil {
				return fail(req)
			}
			return nil
		}).
		Times(times)
	return &reqs
}

func treatmentPayload(t *testing.T, id int32, userID, petID, date string) domain.PendingNotification {
	t.Helper()

	raw, err := domain.NotificationPayload{
		Type:           domain.PayloadTreatmentReminder,
		UserID:         userID,
		PetID:          petID,
		ScheduleIDs:    []string{"s"},
		TimeSlot:       "08:00",
		Kind:           domain.KindInitial,
		TreatmentTypes: []domain.TreatmentType{domain.TreatmentMedication},
		ScheduledFor:   testToday,
		Date:           date,
	}.Encode()
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	return domain.PendingNotification{ID: id, Payload: raw}
}

func TestEvaluateGrace(t *testing.T) {
	now := at(8, 30)

	tests := []struct {
		name     string
		target   time.Time
		want     decision
		wantFire time.Time
	}{
		{name: "future", target: now.Add(time.Minute), want: decisionSchedule, wantFire: now.Add(time.Minute)},
		{name: "exactly now", target: now, want: decisionImmediate, wantFire: now.Add(time.Second)},
		{name: "exactly 30 minutes ago", target: now.Add(-30 * time.Minute), want: decisionImmediate, wantFire: now.Add(time.Second)},
		{name: "31 minutes ago", target: now.Add(-31 * time.Minute), want: decisionMissed},
		{name: "just over 30 minutes ago", target: now.Add(-30*time.Minute - time.Second), want: decisionMissed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fireAt := evaluateGrace(tt.target, now)
			if got != tt.want {
				t.Fatalf("decision = %v, want %v", got, tt.want)
			}
			if !fireAt.Equal(tt.wantFire) {
				t.Errorf("fire time = %v, want %v", fireAt, tt.wantFire)
			}
		})
	}
}

func TestScheduleAllForTodayGraceBoundary(t *testing.T) {
	tests := []struct {
		name          string
		now           time.Time
		calls         int
		wantScheduled int
		wantImmediate int
		wantMissed    int
	}{
		{name: "30 minutes late fires immediately", now: at(8, 30), calls: 4, wantScheduled: 3, wantImmediate: 1},
		{name: "31 minutes late is missed without follow-up", now: at(8, 31), calls: 2, wantScheduled: 2, wantMissed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now, testSession())
			f.schedules.EXPECT().ActiveSchedules(gomock.Any(), testUser, testPet).
				Return([]domain.Schedule{daily("med", domain.TreatmentMedication, "08:00")}, nil)
			reqs := f.expectSchedules(tt.calls, nil)

			result := f.coord.ScheduleAllForToday(context.Background())

			if result.Scheduled != tt.wantScheduled || result.Immediate != tt.wantImmediate || result.Missed != tt.wantMissed {
				t.Errorf("got scheduled=%d immediate=%d missed=%d, want %d/%d/%d",
					result.Scheduled, result.Immediate, result.Missed,
					tt.wantScheduled, tt.wantImmediate, tt.wantMissed)
			}
			if len(result.Errors) != 0 {
				t.Errorf("unexpected errors: %v", result.Errors)
			}
			if tt.wantImmediate == 1 {
				first := (*reqs)[0]
				if !first.ScheduledAt.Equal(tt.now.Add(time.Second)) {
					t.Errorf("immediate reminder at %v, want %v", first.ScheduledAt, tt.now.Add(time.Second))
				}
				if !(*reqs)[1].ScheduledAt.Equal(at(10, 0)) {
					t.Errorf("follow-up at %v, want 10:00", (*reqs)[1].ScheduledAt)
				}
			}
		})
	}
}

func TestScheduleAllForTodayBundlesCoincidingTreatments(t *testing.T) {
	f := newFixture(t, at(7, 0), testSession())
	f.schedules.EXPECT().ActiveSchedules(gomock.Any(), testUser, testPet).
		Return([]domain.Schedule{
			daily("medication-a", domain.TreatmentMedication, "08:00"),
			daily("fluid-b", domain.TreatmentFluid, "08:00"),
		}, nil)
	reqs := f.expectSchedules(4, nil)

	result := f.coord.ScheduleAllForToday(context.Background())

	if result.Scheduled != 4 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	want := []struct {
		at   time.Time
		kind domain.NotificationKind
		day  time.Time
	}{
		{at: at(8, 0), kind: domain.KindInitial, day: testToday},
		{at: at(10, 0), kind: domain.KindFollowup, day: testToday},
		{at: at(8, 0).AddDate(0, 0, 1), kind: domain.KindInitial, day: testToday.AddDate(0, 0, 1)},
		{at: at(8, 0).AddDate(0, 0, 2), kind: domain.KindInitial, day: testToday.AddDate(0, 0, 2)},
	}
	for i, w := range want {
		req := (*reqs)[i]
		if !req.ScheduledAt.Equal(w.at) {
			t.Errorf("call %d at %v, want %v", i, req.ScheduledAt, w.at)
		}
		if req.Payload.Kind != w.kind {
			t.Errorf("call %d kind %s, want %s", i, req.Payload.Kind, w.kind)
		}
		if wantID := slotid.Generate(testUser, testPet, "08:00", w.kind, w.day); req.ID != wantID {
			t.Errorf("call %d id %d, want %d", i, req.ID, wantID)
		}
		if req.Channel != ChannelBundle {
			t.Errorf("call %d channel %s, want %s", i, req.Channel, ChannelBundle)
		}
		if len(req.Payload.ScheduleIDs) != 2 || len(req.Payload.TreatmentTypes) != 2 {
			t.Errorf("call %d payload does not carry both treatments: %+v", i, req.Payload)
		}
	}
	if (*reqs)[0].Title != "Miso has 2 treatments due" {
		t.Errorf("bundled title = %q", (*reqs)[0].Title)
	}

	entries, err := f.index.GetForDate(context.Background(), testUser, testPet, testToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 index entries (2 schedules x initial/follow-up), got %+v", entries)
	}
	for _, e := range entries {
		if e.TimeSlot != "08:00" {
			t.Errorf("entry %+v should be keyed by the bundle's slot", e)
		}
	}
}

func TestScheduleAllForTodaySingleTreatmentChannels(t *testing.T) {
	f := newFixture(t, at(7, 0), testSession())
	f.schedules.EXPECT().ActiveSchedules(gomock.Any(), testUser, testPet).
		Return([]domain.Schedule{
			daily("med", domain.TreatmentMedication, "08:00"),
			daily("fluid", domain.TreatmentFluid, "20:00"),
		}, nil)
	reqs := f.expectSchedules(8, nil)

	f.coord.ScheduleAllForToday(context.Background())

	for _, req := range *reqs {
		want := ChannelMedication
		if req.Payload.TimeSlot == "20:00" {
			want = ChannelFluid
		}
		if req.Channel != want {
			t.Errorf("slot %s on channel %s, want %s", req.Payload.TimeSlot, req.Channel, want)
		}
		if req.Payload.Type != domain.PayloadTreatmentReminder {
			t.Errorf("payload type %s", req.Payload.Type)
		}
	}
}

func TestScheduleAllForTodayPartialFailure(t *testing.T) {
	f := newFixture(t, at(7, 0), testSession())
	f.schedules.EXPECT().ActiveSchedules(gomock.Any(), testUser, testPet).
		Return([]domain.Schedule{
			daily("a", domain.TreatmentMedication, "09:00"),
			daily("b", domain.TreatmentMedication, "12:00"),
			daily("c", domain.TreatmentFluid, "18:00"),
		}, nil)

	failID := slotid.Generate(testUser, testPet, "12:00", domain.KindInitial, testToday)
	f.expectSchedules(12, func(req *domain.NotificationRequest) error {
		if req.ID == failID {
			return errors.New("platform quota exceeded")
		}
		return nil
	})

	result := f.coord.ScheduleAllForToday(context.Background())

	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Errors)
	}
	if result.Scheduled != 11 {
		t.Errorf("expected the other 11 notifications scheduled, got %d", result.Scheduled)
	}

	entries, err := f.index.GetForDate(context.Background(), testUser, testPet, testToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range entries {
		if e.NotificationID == failID {
			t.Errorf("failed notification must not be indexed: %+v", e)
		}
	}
	if len(entries) != 5 {
		t.Errorf("expected 5 index entries, got %d", len(entries))
	}
}

func TestScheduleAllForTodaySchedulesUnavailable(t *testing.T) {
	f := newFixture(t, at(7, 0), testSession())
	f.schedules.EXPECT().ActiveSchedules(gomock.Any(), testUser, testPet).
		Return(nil, errors.New("schedule service down"))

	result := f.coord.ScheduleAllForToday(context.Background())

	if result.Reason != domain.ReasonSchedulesUnavailable {
		t.Errorf("reason = %q, want %q", result.Reason, domain.ReasonSchedulesUnavailable)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected one error, got %v", result.Errors)
	}
}

func TestOperationsWithoutUserOrPet(t *testing.T) {
	sessions := map[string]domain.Session{
		"no user": {PetID: testPet, Location: time.UTC},
		"no pet":  {UserID: testUser, Location: time.UTC},
	}

	for name, session := range sessions {
		t.Run(name, func(t *testing.T) {
			// The mocks carry no expectations, so any side effect fails the test.
			f := newFixture(t, at(7, 0), session)
			ctx := context.Background()

			reasons := map[string]domain.Reason{
				"schedule":        f.coord.ScheduleAllForToday(ctx).Reason,
				"refresh":         f.coord.RefreshAll(ctx).Reason,
				"reconcile":       f.coord.RescheduleAll(ctx).Reason,
				"cancel schedule": f.coord.CancelForSchedule(ctx, daily("a", domain.TreatmentFluid, "08:00")).Reason,
				"cancel slot":     f.coord.CancelSlot(ctx, "08:00", domain.KindInitial).Reason,
				"cancel all":      f.coord.CancelAll(ctx).Reason,
				"weekly schedule": f.coord.ScheduleWeeklySummary(ctx).Reason,
				"weekly cancel":   f.coord.CancelWeeklySummary(ctx).Reason,
			}
			for op, reason := range reasons {
				if reason != domain.ReasonNoUserOrPet {
					t.Errorf("%s: reason = %q, want %q", op, reason, domain.ReasonNoUserOrPet)
				}
			}
		})
	}
}
