/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/gradekit/llm"
	"chainguard.dev/gradekit/llm/retry"
	"chainguard.dev/gradekit/metrics"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const messageBody = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-haiku-20240307",
  "content": [{"type": "text", "text": "{\"score\": 8, \"feedback\": \"good\"}"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`

const rateLimitBody = `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`

func fastRetry() retry.Config {
	return retry.Config{
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  2 * time.Millisecond,
	}
}

func newTestClaude(t *testing.T, srv *httptest.Server, opts ...llm.Option) llm.Interface {
	t.Helper()
	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
	c, err := llm.NewClaude(client, append([]llm.Option{llm.WithRetryConfig(fastRetry())}, opts...)...)
	if err != nil {
		t.Fatalf("NewClaude() = %v", err)
	}
	return c
}

func TestClaudeComplete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody))
	}))
	defer srv.Close()

	reader := sdkmetric.NewManualReader()
	m := metrics.NewGenAIWithProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), "test")

	c := newTestClaude(t, srv, llm.WithMetrics(m), llm.WithMaxTokens(321))
	reply, err := c.Complete(context.Background(), &llm.Request{
		System:      "You are an expert evaluator.",
		Prompt:      "Grade this.",
		Temperature: llm.Temperature(0.3),
	})
	if err != nil {
		t.Fatalf("Complete() = %v", err)
	}

	if want := `{"score": 8, "feedback": "good"}`; reply.Text != want {
		t.Errorf("Text: got = %q, wanted = %q", reply.Text, want)
	}
	if reply.InputTokens != 10 || reply.OutputTokens != 5 {
		t.Errorf("tokens: got = %d/%d, wanted = 10/5", reply.InputTokens, reply.OutputTokens)
	}
	if reply.StopReason != "end_turn" {
		t.Errorf("StopReason: got = %q, wanted = end_turn", reply.StopReason)
	}

	if got := body["model"]; got != llm.DefaultClaudeModel {
		t.Errorf("model: got = %v, wanted = %s", got, llm.DefaultClaudeModel)
	}
	if got := body["max_tokens"]; got != float64(321) {
		t.Errorf("max_tokens: got = %v, wanted = 321", got)
	}
	if got := body["temperature"]; got != 0.3 {
		t.Errorf("temperature: got = %v, wanted = 0.3", got)
	}
	if _, ok := body["system"]; !ok {
		t.Error("system: got = missing, wanted = present")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() = %v", err)
	}
	var prompt int64
	for _, sm := range rm.ScopeMetrics {
		for _, mt := range sm.Metrics {
			if mt.Name != "genai.token.prompt" {
				continue
			}
			for _, dp := range mt.Data.(metricdata.Sum[int64]).DataPoints {
				prompt += dp.Value
			}
		}
	}
	if prompt != 10 {
		t.Errorf("genai.token.prompt: got = %d, wanted = 10", prompt)
	}
}

func TestClaudeCompleteRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitBody))
			return
		}
		_, _ = w.Write([]byte(messageBody))
	}))
	defer srv.Close()

	c := newTestClaude(t, srv)
	reply, err := c.Complete(context.Background(), &llm.Request{Prompt: "Grade this."})
	if err != nil {
		t.Fatalf("Complete() = %v", err)
	}
	if reply.Text == "" {
		t.Error("Text: got = empty, wanted = reply text")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls: got = %d, wanted = 2", got)
	}
}

func TestClaudeCompleteGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(rateLimitBody))
	}))
	defer srv.Close()

	c := newTestClaude(t, srv)
	_, err := c.Complete(context.Background(), &llm.Request{Prompt: "Grade this."})
	if err == nil {
		t.Fatal("Complete(): got = nil error, wanted = error")
	}
	if !strings.Contains(err.Error(), "failed after 2 retries") {
		t.Errorf("error: got = %v, wanted retry exhaustion", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls: got = %d, wanted = 3", got)
	}
}

func TestClaudeCompleteNoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	c := newTestClaude(t, srv)
	if _, err := c.Complete(context.Background(), &llm.Request{Prompt: "Grade this."}); err == nil {
		t.Fatal("Complete(): got = nil error, wanted = error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls: got = %d, wanted = 1", got)
	}
}

func TestClaudeCompleteRequiresPrompt(t *testing.T) {
	c, err := llm.NewClaude(anthropic.NewClient(option.WithAPIKey("k")))
	if err != nil {
		t.Fatalf("NewClaude() = %v", err)
	}
	if _, err := c.Complete(context.Background(), &llm.Request{}); err == nil {
		t.Error("Complete(empty): got = nil error, wanted = error")
	}
}

func TestConstructorValidation(t *testing.T) {
	client := anthropic.NewClient(option.WithAPIKey("k"))

	tests := []struct {
		name string
		opts []llm.Option
	}{
		{name: "gemini model on claude", opts: []llm.Option{llm.WithModel("gemini-2.5-pro")}},
		{name: "empty model", opts: []llm.Option{llm.WithModel("")}},
		{name: "zero max tokens", opts: []llm.Option{llm.WithMaxTokens(0)}},
		{name: "temperature too high", opts: []llm.Option{llm.WithTemperature(2.5)}},
		{name: "negative retries", opts: []llm.Option{llm.WithRetryConfig(retry.Config{MaxRetries: -1})}},
		{name: "nil metrics", opts: []llm.Option{llm.WithMetrics(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := llm.NewClaude(client, tt.opts...); err == nil {
				t.Error("NewClaude(): got = nil error, wanted = error")
			}
		})
	}

	if _, err := llm.NewAnthropic("", nil); err == nil {
		t.Error("NewAnthropic(empty key): got = nil error, wanted = error")
	}
	if _, err := llm.NewGemini(nil); err == nil {
		t.Error("NewGemini(nil): got = nil error, wanted = error")
	}
}

func TestNewVertexUnsupportedModel(t *testing.T) {
	_, err := llm.NewVertex(context.Background(), "project", "us-east5", "gpt-4o")
	if err == nil {
		t.Fatal("NewVertex(gpt-4o): got = nil error, wanted = error")
	}
	if !strings.Contains(err.Error(), "unsupported model") {
		t.Errorf("error: got = %v, wanted unsupported model", err)
	}
}
