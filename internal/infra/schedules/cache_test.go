package schedules

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/testutil"
)

func testSchedule() domain.Schedule {
	return domain.Schedule{
		ID:            "s1",
		Name:          "Benazepril",
		TreatmentType: domain.TreatmentMedication,
		Active:        true,
		Frequency:     domain.FrequencyDaily,
		ReminderTimes: []domain.TimeSlot{"08:00"},
		StartDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCachedProvider_HitAfterMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := domain.NewMockScheduleProvider(ctrl)
	mr, client := testutil.SetupMiniredis(t)
	ctx := context.Background()

	next.EXPECT().ActiveSchedules(gomock.Any(), "u1", "p1").Return([]domain.Schedule{testSchedule()}, nil).Times(1)

	p := NewCachedProvider(next, client, time.Minute)

	for i := 0; i < 2; i++ {
		got, err := p.ActiveSchedules(ctx, "u1", "p1")
		if err != nil {
			t.Fatalf("ActiveSchedules() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "s1" || !got[0].StartDate.Equal(testSchedule().StartDate) {
			t.Fatalf("ActiveSchedules() = %+v", got)
		}
	}

	if ttl := mr.TTL("schedule_cache:u1:p1"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
}

func TestCachedProvider_ExpiryAndInvalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := domain.NewMockScheduleProvider(ctrl)
	mr, client := testutil.SetupMiniredis(t)
	ctx := context.Background()

	next.EXPECT().ActiveSchedules(gomock.Any(), "u1", "p1").Return([]domain.Schedule{testSchedule()}, nil).Times(3)

	p := NewCachedProvider(next, client, time.Minute)

	_, _ = p.ActiveSchedules(ctx, "u1", "p1")
	mr.FastForward(2 * time.Minute)
	_, _ = p.ActiveSchedules(ctx, "u1", "p1")

	if err := p.Invalidate(ctx, "u1", "p1"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	_, _ = p.ActiveSchedules(ctx, "u1", "p1")
}

func TestCachedProvider_UpstreamErrorNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := domain.NewMockScheduleProvider(ctrl)
	mr, client := testutil.SetupMiniredis(t)

	next.EXPECT().ActiveSchedules(gomock.Any(), "u1", "p1").Return(nil, errors.New("unavailable"))

	p := NewCachedProvider(next, client, time.Minute)
	if _, err := p.ActiveSchedules(context.Background(), "u1", "p1"); err == nil {
		t.Fatal("ActiveSchedules() error = nil, want upstream error")
	}
	if mr.Exists("schedule_cache:u1:p1") {
		t.Error("failed read must not be cached")
	}
}

func TestCachedProvider_CorruptEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := domain.NewMockScheduleProvider(ctrl)
	mr, client := testutil.SetupMiniredis(t)

	_ = mr.Set("schedule_cache:u1:p1", "{broken")
	next.EXPECT().ActiveSchedules(gomock.Any(), "u1", "p1").Return([]domain.Schedule{testSchedule()}, nil)

	p := NewCachedProvider(next, client, time.Minute)
	got, err := p.ActiveSchedules(context.Background(), "u1", "p1")
	if err != nil || len(got) != 1 {
		t.Fatalf("ActiveSchedules() = %v, %v; want fallback to upstream", got, err)
	}
}

func TestCachedProvider_RedisDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := domain.NewMockScheduleProvider(ctrl)
	mr, client := testutil.SetupMiniredis(t)
	mr.Close()

	next.EXPECT().ActiveSchedules(gomock.Any(), "u1", "p1").Return([]domain.Schedule{testSchedule()}, nil)

	p := NewCachedProvider(next, client, time.Minute)
	got, err := p.ActiveSchedules(context.Background(), "u1", "p1")
	if err != nil || len(got) != 1 {
		t.Fatalf("ActiveSchedules() = %v, %v; want upstream result", got, err)
	}
}
