/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/gradekit/llm/retry"
	"google.golang.org/genai"
)

type gemini struct {
	client *genai.Client
	cfg    *config
}

var _ Interface = (*gemini)(nil)

// NewGemini wraps a Gen AI client. The model must be a gemini-* model.
func NewGemini(client *genai.Client, opts ...Option) (Interface, error) {
	if client == nil {
		return nil, errors.New("genai client cannot be nil")
	}
	cfg, err := newConfig(DefaultGeminiModel, opts)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(cfg.model, "gemini-") {
		return nil, fmt.Errorf("unsupported model for gemini backend: %s (expected gemini-*)", cfg.model)
	}
	return &gemini{client: client, cfg: cfg}, nil
}

// Complete implements Interface.
func (g *gemini) Complete(ctx context.Context, req *Request) (*Reply, error) {
	if req == nil || req.Prompt == "" {
		return nil, errors.New("prompt is required")
	}

	gc := generateConfig(g.cfg, req)
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	return g.cfg.observe(ctx, "vertex_ai", func(ctx context.Context) (*Reply, error) {
		resp, err := retry.Do(ctx, g.cfg.retry, "generate_content", IsRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.cfg.model, contents, gc)
		})
		if err != nil {
			return nil, fmt.Errorf("gemini completion: %w", err)
		}
		return geminiReply(g.cfg.model, resp)
	})
}

func generateConfig(cfg *config, req *Request) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		Temperature:     ptr(float32(cfg.temperatureFor(req))),
		MaxOutputTokens: int32(cfg.maxTokensFor(req)), //nolint:gosec // bounded by validated options
	}
	if req.System != "" {
		gc.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}
	return gc
}

func geminiReply(model string, resp *genai.GenerateContentResponse) (*Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini returned no candidates")
	}
	cand := resp.Candidates[0]

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}

	reply := &Reply{
		Text:       text.String(),
		Model:      model,
		StopReason: string(cand.FinishReason),
	}
	if resp.ModelVersion != "" {
		reply.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		reply.InputTokens = int64(resp.UsageMetadata.PromptTokenCount)
		reply.OutputTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	return reply, nil
}

func ptr[T any](v T) *T { return &v }
