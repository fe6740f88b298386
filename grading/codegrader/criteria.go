/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegrader

import (
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/gradekit/grading"
)

// Criteria configures the checks a Grader runs. It is immutable once built;
// use NewCriteria or Config.Criteria to construct one.
type Criteria struct {
	minLength            *int
	maxLength            *int
	requiredWords        []string
	forbiddenWords       []string
	syntaxCheck          bool
	readabilityThreshold float64
}

// CriteriaOption configures a Criteria.
type CriteriaOption func(*Criteria) error

// WithMinLength sets the inclusive minimum character count of the trimmed output.
func WithMinLength(n int) CriteriaOption {
	return func(c *Criteria) error {
		if n < 0 {
			return fmt.Errorf("%w: min length %d is negative", grading.ErrInvalidCriteria, n)
		}
		c.minLength = &n
		return nil
	}
}

// WithMaxLength sets the inclusive maximum character count of the trimmed output.
func WithMaxLength(n int) CriteriaOption {
	return func(c *Criteria) error {
		if n < 0 {
			return fmt.Errorf("%w: max length %d is negative", grading.ErrInvalidCriteria, n)
		}
		c.maxLength = &n
		return nil
	}
}

// WithRequiredWords adds words that must appear in the output.
func WithRequiredWords(words ...string) CriteriaOption {
	return func(c *Criteria) error {
		c.requiredWords = append(c.requiredWords, nonEmpty(words)...)
		return nil
	}
}

// WithForbiddenWords adds words that must not appear in the output.
func WithForbiddenWords(words ...string) CriteriaOption {
	return func(c *Criteria) error {
		c.forbiddenWords = append(c.forbiddenWords, nonEmpty(words)...)
		return nil
	}
}

// WithSyntaxCheck toggles syntax validation. It is enabled by default.
func WithSyntaxCheck(enabled bool) CriteriaOption {
	return func(c *Criteria) error {
		c.syntaxCheck = enabled
		return nil
	}
}

// WithReadabilityThreshold sets the minimum readability score for the
// readability check to pass.
func WithReadabilityThreshold(threshold float64) CriteriaOption {
	return func(c *Criteria) error {
		if err := grading.ValidateThreshold(threshold); err != nil {
			return fmt.Errorf("readability: %w", err)
		}
		c.readabilityThreshold = threshold
		return nil
	}
}

// NewCriteria builds a Criteria from options and validates it.
func NewCriteria(opts ...CriteriaOption) (*Criteria, error) {
	c := &Criteria{
		syntaxCheck:          true,
		readabilityThreshold: grading.DefaultThreshold,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.minLength != nil && c.maxLength != nil && *c.minLength > *c.maxLength {
		return nil, fmt.Errorf("%w: min length %d exceeds max length %d", grading.ErrInvalidCriteria, *c.minLength, *c.maxLength)
	}
	for _, w := range c.requiredWords {
		if slices.ContainsFunc(c.forbiddenWords, func(f string) bool { return strings.EqualFold(f, w) }) {
			return nil, fmt.Errorf("%w: word %q is both required and forbidden", grading.ErrInvalidCriteria, w)
		}
	}
	return c, nil
}

// DefaultCriteria returns criteria with no length or word constraints,
// syntax checking on and the default readability threshold.
func DefaultCriteria() *Criteria {
	c, _ := NewCriteria()
	return c
}

// MinLength returns the minimum length and whether one is set.
func (c *Criteria) MinLength() (int, bool) {
	if c.minLength == nil {
		return 0, false
	}
	return *c.minLength, true
}

// MaxLength returns the maximum length and whether one is set.
func (c *Criteria) MaxLength() (int, bool) {
	if c.maxLength == nil {
		return 0, false
	}
	return *c.maxLength, true
}

// RequiredWords returns a copy of the required words.
func (c *Criteria) RequiredWords() []string { return slices.Clone(c.requiredWords) }

// ForbiddenWords returns a copy of the forbidden words.
func (c *Criteria) ForbiddenWords() []string { return slices.Clone(c.forbiddenWords) }

// SyntaxCheck reports whether syntax validation is enabled.
func (c *Criteria) SyntaxCheck() bool { return c.syntaxCheck }

// ReadabilityThreshold returns the readability pass threshold.
func (c *Criteria) ReadabilityThreshold() float64 { return c.readabilityThreshold }

// Config is the serialized form of Criteria, as found in grading profiles
// and dataset grading configuration. Nil fields take their defaults.
type Config struct {
	MinLength            *int     `json:"min_length,omitempty" yaml:"min_length,omitempty" mapstructure:"min_length"`
	MaxLength            *int     `json:"max_length,omitempty" yaml:"max_length,omitempty" mapstructure:"max_length"`
	RequiredWords        []string `json:"required_words,omitempty" yaml:"required_words,omitempty" mapstructure:"required_words"`
	ForbiddenWords       []string `json:"forbidden_words,omitempty" yaml:"forbidden_words,omitempty" mapstructure:"forbidden_words"`
	SyntaxCheck          *bool    `json:"syntax_check,omitempty" yaml:"syntax_check,omitempty" mapstructure:"syntax_check"`
	ReadabilityThreshold *float64 `json:"readability_threshold,omitempty" yaml:"readability_threshold,omitempty" mapstructure:"readability_threshold"`
}

// Criteria converts the config into validated Criteria.
func (cfg Config) Criteria() (*Criteria, error) {
	opts := []CriteriaOption{
		WithRequiredWords(cfg.RequiredWords...),
		WithForbiddenWords(cfg.ForbiddenWords...),
	}
	if cfg.MinLength != nil {
		opts = append(opts, WithMinLength(*cfg.MinLength))
	}
	if cfg.MaxLength != nil {
		opts = append(opts, WithMaxLength(*cfg.MaxLength))
	}
	if cfg.SyntaxCheck != nil {
		opts = append(opts, WithSyntaxCheck(*cfg.SyntaxCheck))
	}
	if cfg.ReadabilityThreshold != nil {
		opts = append(opts, WithReadabilityThreshold(*cfg.ReadabilityThreshold))
	}
	return NewCriteria(opts...)
}

func nonEmpty(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
