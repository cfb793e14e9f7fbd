package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydracat/notification-scheduler/internal/observability/logging"
	"github.com/hydracat/notification-scheduler/internal/observability/metrics"
	"github.com/hydracat/notification-scheduler/internal/observability/tracing"
)

type GinConfig struct {
	SkipPaths  []string
	Module     logging.Module
	TracerName string
	// JobNameResolver names the span; defaults to the matched route.
	JobNameResolver func(c *gin.Context) string
	HTTPMetrics     *metrics.HTTPMetrics
}

// Gin propagates request id and trace context, logs each request and records HTTP metrics.
func Gin(cfg GinConfig) gin.HandlerFunc {
	tracerName := cfg.TracerName
	if tracerName == "" {
		tracerName = "github.com/hydracat/notification-scheduler/internal/observability/middleware"
	}
	tracer := otel.Tracer(tracerName)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if slices.Contains(cfg.SkipPaths, path) {
			c.Next()
			return
		}

		start := time.Now()
		requestID := logging.ValidateAndExtractRequestID(c.GetHeader(logging.RequestIDHeader))
		c.Header(logging.RequestIDHeader, requestID)

		ctx := tracing.ExtractFromHTTPRequest(c.Request.Context(), c.Request)
		ctx = logging.WithRequestID(ctx, requestID)
		if cfg.Module != "" {
			ctx = logging.WithModule(ctx, cfg.Module)
		}

		route := c.FullPath()
		if route == "" {
			route = path
		}
		spanName := route
		if cfg.JobNameResolver != nil {
			spanName = cfg.JobNameResolver(c)
		}

		ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", c.Request.Method, spanName),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("request_id", requestID),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		if cfg.HTTPMetrics != nil {
			cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, route, status, duration)
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "request completed",
			slog.String("event", "http.request.complete"),
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		)
	}
}

func PanicRecoveryGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()
				slog.ErrorContext(ctx, "panic recovered",
					slog.String("event", "http.panic"),
					slog.String("panic", fmt.Sprint(r)),
					slog.String("stack", string(debug.Stack())),
				)
				trace.SpanFromContext(ctx).SetStatus(codes.Error, "panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
