/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader

import (
	"fmt"
	"strings"

	"chainguard.dev/gradekit/grading"
)

const (
	// ErrorPenalty is deducted from the score for each validation error.
	ErrorPenalty = 2.0
	// WarningPenalty is deducted from the score for each validation warning.
	WarningPenalty = 0.5
)

// validator checks output against one format. fatal reports that the output
// does not parse as the format at all.
type validator func(c *Criteria, output string) (check grading.Check, fatal bool)

var validators = map[Format]validator{
	JSON:     validateJSON,
	XML:      validateXML,
	Markdown: validateMarkdown,
	CSV:      validateCSV,
	YAML:     validateYAML,
	Text:     validateText,
}

// Grader validates output structure. It holds no mutable state and is safe
// for concurrent use.
type Grader struct {
	criteria  *Criteria
	threshold float64
}

// Option configures a Grader.
type Option func(*Grader) error

// WithThreshold sets the pass threshold (default grading.DefaultThreshold).
func WithThreshold(threshold float64) Option {
	return func(g *Grader) error {
		if err := grading.ValidateThreshold(threshold); err != nil {
			return err
		}
		g.threshold = threshold
		return nil
	}
}

// New creates a Grader. A nil criteria runs format validation only.
func New(criteria *Criteria, opts ...Option) (*Grader, error) {
	if criteria == nil {
		criteria = &Criteria{}
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

// Grade validates output as format. An empty format falls back to the
// criteria's required format, then to detection from the output alone.
func (g *Grader) Grade(output string, format Format) grading.Result {
	return g.GradeWithPrompt("", output, format)
}

// GradeWithPrompt is Grade with the originating prompt available for format
// detection.
func (g *Grader) GradeWithPrompt(prompt, output string, format Format) grading.Result {
	detected := false
	if format == "" {
		if f, ok := g.criteria.RequiredFormat(); ok {
			format = f
		} else {
			format = Detect(prompt, output)
			detected = true
		}
	}

	validate, ok := validators[format]
	if !ok {
		return grading.Failed(fmt.Sprintf("Unsupported format: %q", format), map[string]any{
			"format":        string(format),
			"auto_detected": detected,
			"errors":        []string{fmt.Sprintf("unsupported format %q", format)},
			"warnings":      []string{},
		})
	}

	check, fatal := validate(g.criteria, output)
	check.Finish(fmt.Sprintf("Valid %s format", format))

	details := map[string]any{
		"format":        string(format),
		"auto_detected": detected,
		"errors":        check.Errors,
		"warnings":      check.Warnings,
		"feedback":      check.Feedback,
	}
	if lang, ok := g.criteria.RequiredLanguage(); ok {
		details["required_language"] = lang
	}
	if g.criteria.localeSpecific {
		details["locale_specific"] = true
	}

	if fatal {
		details["parse_error"] = true
		return grading.Failed(check.Feedback, details)
	}

	score := grading.MaxScore - ErrorPenalty*float64(len(check.Errors)) - WarningPenalty*float64(len(check.Warnings))
	return grading.NewResult(score, g.threshold, feedback(format, check), details)
}

func feedback(format Format, c grading.Check) string {
	if len(c.Errors) == 0 && len(c.Warnings) == 0 {
		return fmt.Sprintf("Valid %s format", format)
	}
	parts := make([]string, 0, 2)
	if len(c.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s): %s", len(c.Errors), strings.Join(c.Errors, "; ")))
	}
	if len(c.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s): %s", len(c.Warnings), strings.Join(c.Warnings, "; ")))
	}
	return strings.Join(parts, " | ")
}

func validateText(_ *Criteria, output string) (grading.Check, bool) {
	var c grading.Check
	if strings.TrimSpace(output) == "" {
		c.Errorf("Output is empty")
		return c, true
	}
	return c, false
}
