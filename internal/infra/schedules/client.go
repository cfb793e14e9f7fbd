package schedules

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/observability/logging"
	"github.com/hydracat/notification-scheduler/internal/observability/tracing"
)

var _ domain.ScheduleProvider = (*Client)(nil)

// Client reads treatment schedules from the schedule service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

const defaultTimeout = 10 * time.Second

type clientOptions struct {
	timeout time.Duration
}

type ClientOption func(*clientOptions)

// WithTimeout bounds each schedule lookup. Non-positive values keep the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	o := clientOptions{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL, o.timeout),
	}
}

func (c *Client) ActiveSchedules(ctx context.Context, userID, petID string) ([]domain.Schedule, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = fmt.Sprintf("/api/v1/users/%s/pets/%s/schedules", url.PathEscape(userID), url.PathEscape(petID))
	q := u.Query()
	q.Set("active", "true")
	u.RawQuery = q.Encode()

	ctx, span := tracing.StartExternalAPISpan(ctx, "active_schedules", u.String())
	defer span.End()

	slog.DebugContext(ctx, "fetching schedules from schedule service",
		slog.String("url", u.String()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set(logging.RequestIDHeader, requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send request to schedule service",
			slog.String("url", u.String()),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.ErrorContext(ctx, "unexpected status code from schedule service",
			slog.String("url", u.String()),
			slog.Int("status_code", resp.StatusCode),
		)
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		tracing.RecordError(span, err)
		return nil, err
	}

	var schedulesResp SchedulesResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedulesResp); err != nil {
		slog.ErrorContext(ctx, "failed to decode response from schedule service",
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	schedules := activeSchedules(ctx, schedulesResp.Schedules, slog.String("user_id", userID), slog.String("pet_id", petID))

	slog.DebugContext(ctx, "successfully fetched schedules",
		slog.Int("count", len(schedules)),
	)

	return schedules, nil
}
