package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestWithLoadtestRunID(t *testing.T) {
	ctx := WithLoadtestRunID(context.Background(), "")
	if _, ok := LoadtestRunID(ctx); ok {
		t.Error("empty run id should not be stored")
	}

	ctx = WithLoadtestRunID(context.Background(), "run-7")
	if got, ok := LoadtestRunID(ctx); !ok || got != "run-7" {
		t.Errorf("LoadtestRunID() = %q, %v", got, ok)
	}

	base := []attribute.KeyValue{attribute.String("operation", "schedule")}
	got := appendLoadtestLabels(ctx, base)
	want := 1
	if loadtestLabels {
		want = 2
	}
	if len(got) != want {
		t.Errorf("appendLoadtestLabels() = %v, want %d attributes", got, want)
	}
}
