/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegrader

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"chainguard.dev/gradekit/grading"
)

// Grader runs deterministic checks over raw output. It holds no mutable
// state and is safe for concurrent use.
type Grader struct {
	criteria  *Criteria
	threshold float64
}

// Option configures a Grader.
type Option func(*Grader) error

// WithThreshold sets the aggregate pass threshold (default grading.DefaultThreshold).
func WithThreshold(threshold float64) Option {
	return func(g *Grader) error {
		if err := grading.ValidateThreshold(threshold); err != nil {
			return err
		}
		g.threshold = threshold
		return nil
	}
}

// New creates a Grader. A nil criteria uses DefaultCriteria.
func New(criteria *Criteria, opts ...Option) (*Grader, error) {
	if criteria == nil {
		criteria = DefaultCriteria()
	}
	g := &Grader{
		criteria:  criteria,
		threshold: grading.DefaultThreshold,
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Criteria returns the criteria the grader was built with.
func (g *Grader) Criteria() *Criteria { return g.criteria }

// LengthCheck is the outcome of the length check.
type LengthCheck struct {
	grading.Check
	Length  int  `json:"length"`
	Skipped bool `json:"skipped"`
}

// WordCheck is the outcome of the required/forbidden word check.
type WordCheck struct {
	grading.Check
	Missing   []string `json:"missing"`
	Forbidden []string `json:"forbidden"`
	Skipped   bool     `json:"skipped"`
}

// CheckLength checks the character count of the trimmed output against the
// configured bounds.
func (g *Grader) CheckLength(output string) LengthCheck {
	n := utf8.RuneCountInString(strings.TrimSpace(output))
	lc := LengthCheck{Length: n}

	minLen, hasMin := g.criteria.MinLength()
	maxLen, hasMax := g.criteria.MaxLength()
	if !hasMin && !hasMax {
		lc.Skipped = true
		lc.Finish("No length constraints")
		return lc
	}
	if hasMin && n < minLen {
		lc.Errorf("Output too short: %d characters (minimum %d)", n, minLen)
	}
	if hasMax && n > maxLen {
		lc.Errorf("Output too long: %d characters (maximum %d)", n, maxLen)
	}
	lc.Finish(fmt.Sprintf("Length OK: %d characters", n))
	return lc
}

// VerifyWords checks for required and forbidden words, case-insensitively.
func (g *Grader) VerifyWords(output string) WordCheck {
	wc := WordCheck{Missing: []string{}, Forbidden: []string{}}
	required, forbidden := g.criteria.requiredWords, g.criteria.forbiddenWords
	if len(required) == 0 && len(forbidden) == 0 {
		wc.Skipped = true
		wc.Finish("No word constraints")
		return wc
	}

	lower := strings.ToLower(output)
	for _, w := range required {
		if !strings.Contains(lower, strings.ToLower(w)) {
			wc.Missing = append(wc.Missing, w)
			wc.Errorf("Missing required word: %q", w)
		}
	}
	for _, w := range forbidden {
		if strings.Contains(lower, strings.ToLower(w)) {
			wc.Forbidden = append(wc.Forbidden, w)
			wc.Errorf("Contains forbidden word: %q", w)
		}
	}
	wc.Finish("Word requirements met")
	return wc
}

// Grade runs every active check against output and aggregates them into a
// single result. language selects the syntax validator; unrecognized
// languages skip syntax validation.
func (g *Grader) Grade(output, language string) grading.Result {
	length := g.CheckLength(output)
	words := g.VerifyWords(output)
	syntax := g.ValidateSyntax(output, language)
	readability := g.Readability(output)

	type check struct {
		name   string
		active bool
		passed bool
		msg    string
	}
	checks := []check{
		{"length", !length.Skipped, length.Passed, length.Feedback},
		{"words", !words.Skipped, words.Passed, words.Feedback},
		{"syntax", !syntax.Skipped, syntax.Passed, syntax.Feedback},
	}

	var active, failures []string
	var passed int
	for _, c := range checks {
		if !c.active {
			continue
		}
		active = append(active, c.name)
		if c.passed {
			passed++
		} else {
			failures = append(failures, c.msg)
		}
	}
	// Readability is always active and earns its share in proportion to
	// its own 1-10 score.
	active = append(active, "readability")
	if !readability.Passed {
		failures = append(failures, readability.Feedback)
	}

	share := grading.MaxScore / float64(len(active))
	score := share*float64(passed) + share*readability.Score/grading.MaxScore

	feedback := "All checks passed"
	if len(failures) > 0 {
		feedback = strings.Join(failures, "; ")
	}

	return grading.NewResult(score, g.threshold, feedback, map[string]any{
		"length":        length,
		"words":         words,
		"syntax":        syntax,
		"readability":   readability,
		"active_checks": active,
	})
}
