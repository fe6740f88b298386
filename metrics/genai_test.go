/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics_test

import (
	"context"
	"testing"
	"time"

	"chainguard.dev/gradekit/metrics"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() = %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sum(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	s, ok := agg.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("aggregation: got = %T, wanted metricdata.Sum[int64]", agg)
	}
	var total int64
	for _, dp := range s.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordTokens(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m := metrics.NewGenAIWithProvider(provider, "test")

	var enriched bool
	m.SetAttributeEnricher(func(_ context.Context, base []attribute.KeyValue) []attribute.KeyValue {
		enriched = true
		return append(base, attribute.String("dataset", "smoke"))
	})

	ctx := context.Background()
	m.RecordTokens(ctx, "claude-test", 100, 20)
	m.RecordTokens(ctx, "claude-test", 50, 5, attribute.String("grader", "model_grader"))

	got := collect(t, reader)
	if n := sum(t, got["genai.token.prompt"]); n != 150 {
		t.Errorf("genai.token.prompt: got = %d, wanted = 150", n)
	}
	if n := sum(t, got["genai.token.completion"]); n != 25 {
		t.Errorf("genai.token.completion: got = %d, wanted = 25", n)
	}
	if !enriched {
		t.Error("enricher: got = not called, wanted = called")
	}
}

func TestRecordRequest(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m := metrics.NewGenAIWithProvider(provider, "test")

	ctx := context.Background()
	m.RecordRequest(ctx, "gemini-test", metrics.OutcomeSuccess, 2*time.Second)
	m.RecordRequest(ctx, "gemini-test", metrics.OutcomeError, time.Second)

	got := collect(t, reader)
	if n := sum(t, got["genai.requests"]); n != 2 {
		t.Errorf("genai.requests: got = %d, wanted = 2", n)
	}
	h, ok := got["genai.request.duration"].(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("genai.request.duration: got = %T, wanted histogram", got["genai.request.duration"])
	}
	var count uint64
	for _, dp := range h.DataPoints {
		count += dp.Count
	}
	if count != 2 {
		t.Errorf("histogram count: got = %d, wanted = 2", count)
	}
}
