/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry retries model API calls that fail with transient errors,
// using exponential backoff with jitter.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures retry behavior.
type Config struct {
	// MaxRetries is the number of retries after the first attempt (default 5).
	// 0 disables retrying.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
	// BaseBackoff is the first backoff duration (default 1s).
	BaseBackoff time.Duration `json:"base_backoff" yaml:"base_backoff"`
	// MaxBackoff caps the exponential backoff (default 60s).
	MaxBackoff time.Duration `json:"max_backoff" yaml:"max_backoff"`
	// MaxJitter is the upper bound of random jitter added to each backoff (default 500ms).
	MaxJitter time.Duration `json:"max_jitter" yaml:"max_jitter"`
}

// Validate checks that the configuration has no negative values.
func (c Config) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return errors.New("max retries cannot be negative")
	case c.BaseBackoff < 0:
		return errors.New("base backoff cannot be negative")
	case c.MaxBackoff < 0:
		return errors.New("max backoff cannot be negative")
	case c.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// Default returns a configuration tuned for quota and rate limit errors,
// which tend to need longer to clear than ordinary transient failures.
func Default() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  60 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Backoff returns the backoff before retry number attempt (0-based),
// without jitter: BaseBackoff doubled per attempt, capped at MaxBackoff.
func (c Config) Backoff(attempt int) time.Duration {
	d := c.BaseBackoff
	for i := 0; i < attempt && d < c.MaxBackoff; i++ {
		d *= 2
	}
	return min(d, c.MaxBackoff)
}

func (c Config) jitter() time.Duration {
	if c.MaxJitter <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(c.MaxJitter)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}

// Do calls fn until it succeeds, returns an error retryable rejects, or the
// retries are exhausted. Exhaustion wraps the last error with the operation
// name. Cancelling ctx interrupts the backoff.
func Do[T any](ctx context.Context, cfg Config, operation string, retryable Classifier, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}
		if !retryable(lastErr) {
			return result, lastErr
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		wait := cfg.Backoff(attempt) + cfg.jitter()
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", wait).
			With("error", lastErr.Error()).
			Warn("Transient model API error, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(wait):
		}
	}

	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
}
