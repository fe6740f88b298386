/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"time"

	"chainguard.dev/gradekit/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "chainguard.gradekit.llm"

// observe wraps one completion in a span and records its outcome.
func (c *config) observe(ctx context.Context, provider string, fn func(context.Context) (*Reply, error)) (*Reply, error) {
	tr := otel.Tracer(tracerName, oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(ctx, "llm.complete", oteltrace.WithAttributes(
		attribute.String("gen_ai.system", provider),
		attribute.String("gen_ai.request.model", c.model),
	))
	defer span.End()

	start := time.Now()
	reply, err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.RecordRequest(ctx, c.model, metrics.OutcomeError, elapsed)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", reply.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", reply.OutputTokens),
	)
	span.SetStatus(codes.Ok, "")
	c.metrics.RecordTokens(ctx, c.model, reply.InputTokens, reply.OutputTokens)
	c.metrics.RecordRequest(ctx, c.model, metrics.OutcomeSuccess, elapsed)
	return reply, nil
}
