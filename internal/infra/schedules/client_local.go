//go:build !gcloud

package schedules

import (
	"net/http"
	"time"
)

func newHTTPClient(_ string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
