/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm_test

import (
	"errors"
	"fmt"
	"testing"

	"chainguard.dev/gradekit/llm"
	"github.com/anthropics/anthropic-sdk-go"
)

func TestIsRetryableClaudeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "non-API error", err: errors.New("connection refused"), want: false},
		{name: "429 rate limit", err: &anthropic.Error{StatusCode: 429}, want: true},
		{name: "503 unavailable", err: &anthropic.Error{StatusCode: 503}, want: true},
		{name: "504 gateway timeout", err: &anthropic.Error{StatusCode: 504}, want: true},
		{name: "529 overloaded", err: &anthropic.Error{StatusCode: 529}, want: true},
		{name: "wrapped 429", err: fmt.Errorf("call: %w", &anthropic.Error{StatusCode: 429}), want: true},
		{name: "400 bad request", err: &anthropic.Error{StatusCode: 400}, want: false},
		{name: "401 unauthorized", err: &anthropic.Error{StatusCode: 401}, want: false},
		{name: "500 internal error", err: &anthropic.Error{StatusCode: 500}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := llm.IsRetryableClaudeError(tt.err); got != tt.want {
				t.Errorf("IsRetryableClaudeError(%v): got = %v, wanted = %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryableGeminiError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "resource exhausted", err: errors.New("rpc error: code = ResourceExhausted desc = Resource exhausted"), want: true},
		{name: "status code", err: errors.New("Error 429, Message: too many requests"), want: true},
		{name: "quota", err: errors.New("quota exceeded for project"), want: true},
		{name: "unavailable", err: errors.New("Error 503: service unavailable"), want: true},
		{name: "internal", err: errors.New("Internal error encountered"), want: true},
		{name: "invalid argument", err: errors.New("Error 400: invalid argument"), want: false},
		{name: "permission denied", err: errors.New("Error 403: permission denied"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := llm.IsRetryableGeminiError(tt.err); got != tt.want {
				t.Errorf("IsRetryableGeminiError(%v): got = %v, wanted = %v", tt.err, got, tt.want)
			}
		})
	}
}
