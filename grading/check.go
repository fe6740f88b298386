/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"fmt"
	"strings"
)

// Check is the sub-result of one validation step inside a grader.
type Check struct {
	Passed   bool     `json:"passed"`
	Feedback string   `json:"feedback"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Errorf records an error on the check.
func (c *Check) Errorf(format string, args ...any) {
	c.Errors = append(c.Errors, fmt.Sprintf(format, args...))
}

// Warnf records a warning on the check.
func (c *Check) Warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends the errors and warnings of other onto c.
func (c *Check) Merge(other Check) {
	c.Errors = append(c.Errors, other.Errors...)
	c.Warnings = append(c.Warnings, other.Warnings...)
}

// Finish sets Passed from the recorded errors and fills in Feedback.
// ok is used as feedback when there are no errors.
func (c *Check) Finish(ok string) {
	c.Passed = len(c.Errors) == 0
	switch {
	case c.Passed && len(c.Warnings) == 0:
		c.Feedback = ok
	case c.Passed:
		c.Feedback = fmt.Sprintf("%s (warnings: %s)", ok, strings.Join(c.Warnings, "; "))
	default:
		c.Feedback = strings.Join(c.Errors, "; ")
	}
	if c.Errors == nil {
		c.Errors = []string{}
	}
	if c.Warnings == nil {
		c.Warnings = []string{}
	}
}
