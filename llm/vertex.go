/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"google.golang.org/genai"
)

// NewVertex creates a client for a model served by Vertex AI, choosing the
// backend from the model name.
func NewVertex(ctx context.Context, projectID, region, model string, opts ...Option) (Interface, error) {
	opts = append([]Option{WithModel(model)}, opts...)

	switch {
	case strings.HasPrefix(model, "claude-"):
		client := anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID))
		return NewClaude(client, opts...)

	case strings.HasPrefix(model, "gemini-"):
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Project:  projectID,
			Location: region,
			Backend:  genai.BackendVertexAI,
		})
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		return NewGemini(client, opts...)

	default:
		return nil, fmt.Errorf("unsupported model: %s (expected claude-* or gemini-*)", model)
	}
}
