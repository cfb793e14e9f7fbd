package schedules

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hydracat/notification-scheduler/internal/domain"
)

const (
	cacheKeyPrefix  = "schedule_cache:"
	DefaultCacheTTL = 5 * time.Minute
)

var _ domain.ScheduleProvider = (*CachedProvider)(nil)

type cacheRecord struct {
	Schedules []ScheduleResponse `json:"schedules"`
	CachedAt  time.Time          `json:"cached_at"`
}

// CachedProvider serves active schedules from Redis and falls back to next on a miss.
// Cache failures never fail the read.
type CachedProvider struct {
	next   domain.ScheduleProvider
	client *redis.Client
	ttl    time.Duration
}

func NewCachedProvider(next domain.ScheduleProvider, client *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(userID, petID string) string {
	return cacheKeyPrefix + url.PathEscape(userID) + ":" + url.PathEscape(petID)
}

func (p *CachedProvider) ActiveSchedules(ctx context.Context, userID, petID string) ([]domain.Schedule, error) {
	key := cacheKey(userID, petID)

	data, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec cacheRecord
		if jsonErr := json.Unmarshal(data, &rec); jsonErr == nil {
			slog.DebugContext(ctx, "schedule cache hit",
				slog.String("user_id", userID),
				slog.String("pet_id", petID),
			)
			return activeSchedules(ctx, rec.Schedules), nil
		}
		slog.WarnContext(ctx, "discarding corrupt schedule cache entry",
			slog.String("key", key),
		)
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "schedule cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	schedules, err := p.next.ActiveSchedules(ctx, userID, petID)
	if err != nil {
		return nil, err
	}

	rec := cacheRecord{
		Schedules: make([]ScheduleResponse, 0, len(schedules)),
		CachedAt:  time.Now(),
	}
	for _, s := range schedules {
		rec.Schedules = append(rec.Schedules, fromDomain(s))
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return schedules, nil
	}
	if err := p.client.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "schedule cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return schedules, nil
}

// Invalidate drops the cached schedules of one pet.
func (p *CachedProvider) Invalidate(ctx context.Context, userID, petID string) error {
	return p.client.Del(ctx, cacheKey(userID, petID)).Err()
}
