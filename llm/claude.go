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
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type claude struct {
	client anthropic.Client
	cfg    *config
}

var _ Interface = (*claude)(nil)

// NewClaude wraps an Anthropic client. The model must be a claude-* model.
func NewClaude(client anthropic.Client, opts ...Option) (Interface, error) {
	cfg, err := newConfig(DefaultClaudeModel, opts)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(cfg.model, "claude-") {
		return nil, fmt.Errorf("unsupported model for claude backend: %s (expected claude-*)", cfg.model)
	}
	return &claude{client: client, cfg: cfg}, nil
}

// NewAnthropic creates a Claude client that authenticates with an API key.
// Extra request options (for example option.WithBaseURL) may be supplied.
func NewAnthropic(apiKey string, opts []Option, reqOpts ...option.RequestOption) (Interface, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, reqOpts...)...)
	return NewClaude(client, opts...)
}

// Complete implements Interface.
func (c *claude) Complete(ctx context.Context, req *Request) (*Reply, error) {
	if req == nil || req.Prompt == "" {
		return nil, errors.New("prompt is required")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.model),
		MaxTokens: c.cfg.maxTokensFor(req),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(c.cfg.temperatureFor(req)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	return c.cfg.observe(ctx, "anthropic", func(ctx context.Context) (*Reply, error) {
		msg, err := retry.Do(ctx, c.cfg.retry, "create_message", IsRetryableClaudeError, func() (*anthropic.Message, error) {
			return c.client.Messages.New(ctx, params)
		})
		if err != nil {
			return nil, fmt.Errorf("claude completion: %w", err)
		}

		var text strings.Builder
		for _, content := range msg.Content {
			if content.Type == "text" {
				text.WriteString(content.Text)
			}
		}
		return &Reply{
			Text:         text.String(),
			Model:        string(msg.Model),
			StopReason:   string(msg.StopReason),
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		}, nil
	})
}
