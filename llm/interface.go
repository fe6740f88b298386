/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import "context"

// Request is a single-turn completion request.
type Request struct {
	// System is the system instruction, if any.
	System string
	// Prompt is the user turn.
	Prompt string
	// MaxTokens bounds the reply length. Zero uses the client default.
	MaxTokens int64
	// Temperature overrides the client default when set.
	Temperature *float64
	// JSON asks backends that support it to constrain the reply to JSON.
	JSON bool
}

// Reply is the model's answer to a Request.
type Reply struct {
	Text         string
	Model        string
	StopReason   string
	InputTokens  int64
	OutputTokens int64
}

// Interface sends one request to a model and returns its reply.
// Implementations must be safe for concurrent use.
type Interface interface {
	Complete(ctx context.Context, req *Request) (*Reply, error)
}

// Temperature returns a pointer to t, for Request.Temperature.
func Temperature(t float64) *float64 { return &t }
