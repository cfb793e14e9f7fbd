package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

type loadtestRunIDKey struct{}

// WithLoadtestRunID tags ctx so that metrics recorded under it can be split per
// load test run when built with the loadtest tag.
func WithLoadtestRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, loadtestRunIDKey{}, runID)
}

func LoadtestRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(loadtestRunIDKey{}).(string)
	return runID, ok
}

func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	if !loadtestLabels {
		return attrs
	}
	if runID, ok := LoadtestRunID(ctx); ok {
		attrs = append(attrs, attribute.String("loadtest.run_id", runID))
	}
	return attrs
}
