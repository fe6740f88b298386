/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"errors"
	"fmt"
	"maps"
)

const (
	// MinScore is the lowest score any grader reports.
	MinScore = 0.0
	// MaxScore is the highest score any grader reports.
	MaxScore = 10.0
	// DefaultThreshold is the score at or above which a result passes.
	DefaultThreshold = 7.0
)

// ErrInvalidCriteria is wrapped by every criteria or option validation error.
var ErrInvalidCriteria = errors.New("invalid grading criteria")

// Result is the outcome of a single grader on a single output.
// Results are values; Details is copied on construction and should be
// treated as read-only.
type Result struct {
	Score    float64        `json:"score"`
	Passed   bool           `json:"passed"`
	Feedback string         `json:"feedback"`
	Details  map[string]any `json:"details"`
}

// NewResult clamps score into [MinScore, MaxScore] and derives Passed from
// threshold.
func NewResult(score, threshold float64, feedback string, details map[string]any) Result {
	score = Clamp(score)
	d := maps.Clone(details)
	if d == nil {
		d = map[string]any{}
	}
	return Result{
		Score:    score,
		Passed:   score >= threshold,
		Feedback: feedback,
		Details:  d,
	}
}

// Failed returns a zero-score result that never passes.
func Failed(feedback string, details map[string]any) Result {
	r := NewResult(MinScore, MaxScore, feedback, details)
	r.Passed = false
	return r
}

// String implements fmt.Stringer
func (r Result) String() string {
	status := "FAIL"
	if r.Passed {
		status = "PASS"
	}
	return fmt.Sprintf("%s %.1f/10: %s", status, r.Score, r.Feedback)
}

// Clamp bounds score to [MinScore, MaxScore].
func Clamp(score float64) float64 {
	return max(MinScore, min(MaxScore, score))
}

// ValidateThreshold checks that a pass threshold lies on the score scale.
func ValidateThreshold(threshold float64) error {
	if threshold < MinScore || threshold > MaxScore {
		return fmt.Errorf("%w: threshold %.2f outside [%.0f, %.0f]", ErrInvalidCriteria, threshold, MinScore, MaxScore)
	}
	return nil
}
