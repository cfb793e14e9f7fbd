//go:build gcloud

package schedules

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/idtoken"
)

// newHTTPClient authenticates calls to the schedule service with an ID token
// whose audience is the service base URL.
func newHTTPClient(baseURL string, timeout time.Duration) *http.Client {
	httpClient, err := idtoken.NewClient(context.Background(), baseURL)
	if err != nil {
		slog.Error("schedule client falling back to unauthenticated transport",
			slog.String("event", "schedules.idtoken.fail"),
			slog.String("audience", baseURL),
			slog.String("error", err.Error()),
		)
		return &http.Client{Timeout: timeout}
	}
	httpClient.Timeout = timeout
	return httpClient
}
