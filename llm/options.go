/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"errors"
	"fmt"

	"chainguard.dev/gradekit/llm/retry"
	"chainguard.dev/gradekit/metrics"
)

const (
	// DefaultClaudeModel is used by Claude clients without WithModel.
	DefaultClaudeModel = "claude-3-haiku-20240307"
	// DefaultGeminiModel is used by Gemini clients without WithModel.
	DefaultGeminiModel = "gemini-2.5-flash"
	// DefaultMaxTokens bounds replies when neither client nor request sets a limit.
	DefaultMaxTokens = 1000
	// DefaultTemperature keeps grading replies close to deterministic.
	DefaultTemperature = 0.1

	meterName = "chainguard.gradekit.llm"
)

// config is shared by every backend.
type config struct {
	model       string
	maxTokens   int64
	temperature float64
	retry       retry.Config
	metrics     *metrics.GenAI
	enricher    metrics.AttributeEnricher
}

// Option configures a client.
type Option func(*config) error

// WithModel selects the model. Each backend checks the model family.
func WithModel(model string) Option {
	return func(c *config) error {
		if model == "" {
			return errors.New("model name cannot be empty")
		}
		c.model = model
		return nil
	}
}

// WithMaxTokens sets the default reply length bound.
func WithMaxTokens(n int64) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.New("max tokens must be positive")
		}
		c.maxTokens = n
		return nil
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *config) error {
		if t < 0.0 || t > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", t)
		}
		c.temperature = t
		return nil
	}
}

// WithRetryConfig overrides the retry behavior for transient errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *config) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		c.retry = cfg
		return nil
	}
}

// WithMetrics records into m instead of a client-owned instance.
func WithMetrics(m *metrics.GenAI) Option {
	return func(c *config) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		c.metrics = m
		return nil
	}
}

// WithAttributeEnricher adds contextual attributes to recorded metrics.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(c *config) error {
		c.enricher = enricher
		return nil
	}
}

func newConfig(defaultModel string, opts []Option) (*config, error) {
	c := &config{
		model:       defaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		retry:       retry.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.metrics == nil {
		c.metrics = metrics.NewGenAI(meterName)
	}
	if c.enricher != nil {
		c.metrics.SetAttributeEnricher(c.enricher)
	}
	return c, nil
}

func (c *config) maxTokensFor(req *Request) int64 {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return c.maxTokens
}

func (c *config) temperatureFor(req *Request) float64 {
	if req.Temperature != nil {
		return *req.Temperature
	}
	return c.temperature
}
