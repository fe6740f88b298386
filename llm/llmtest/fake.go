/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package llmtest provides an in-memory llm.Interface for tests.
package llmtest

import (
	"context"
	"sync"

	"chainguard.dev/gradekit/llm"
)

// Fake answers every request with Respond and records the requests it saw.
type Fake struct {
	// Respond produces the reply text or error for a request.
	Respond func(req *llm.Request) (string, error)

	mu       sync.Mutex
	requests []*llm.Request
}

var _ llm.Interface = (*Fake)(nil)

// Reply returns a Fake that always answers with text.
func Reply(text string) *Fake {
	return &Fake{Respond: func(*llm.Request) (string, error) { return text, nil }}
}

// Error returns a Fake whose every call fails with err.
func Error(err error) *Fake {
	return &Fake{Respond: func(*llm.Request) (string, error) { return "", err }}
}

// Complete implements llm.Interface.
func (f *Fake) Complete(ctx context.Context, req *llm.Request) (*llm.Reply, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := f.Respond(req)
	if err != nil {
		return nil, err
	}
	return &llm.Reply{
		Text:         text,
		Model:        "fake-model",
		StopReason:   "end_turn",
		InputTokens:  int64(len(req.Prompt) / 4),
		OutputTokens: int64(len(text) / 4),
	}, nil
}

// Requests returns the requests received so far.
func (f *Fake) Requests() []*llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*llm.Request, len(f.requests))
	copy(out, f.requests)
	return out
}
