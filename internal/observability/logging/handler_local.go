//go:build !gcloud

package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// platformTraceAttrs adds the sampling flag. The project id is unused off GCP.
func platformTraceAttrs(ctx context.Context, _ string) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{slog.Bool("trace_sampled", sc.IsSampled())}
}
