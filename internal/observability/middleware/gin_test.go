package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hydracat/notification-scheduler/internal/observability/logging"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Gin(GinConfig{SkipPaths: []string{"/health"}, Module: logging.Module("test")}))
	r.Use(PanicRecoveryGin())
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, logging.RequestIDFromContext(c.Request.Context()))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestGin_PropagatesRequestID(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(logging.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "req-42" {
		t.Errorf("request id in context = %q, want req-42", w.Body.String())
	}
	if got := w.Header().Get(logging.RequestIDHeader); got != "req-42" {
		t.Errorf("response header = %q, want req-42", got)
	}
}

func TestGin_GeneratesRequestID(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if w.Body.String() == "" {
		t.Error("expected generated request id")
	}
}

func TestPanicRecoveryGin(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestGin_SkipPaths(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Header().Get(logging.RequestIDHeader) != "" {
		t.Error("skipped path should not get a request id header")
	}
}
