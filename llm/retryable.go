/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"errors"
	"slices"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Rate limiting, overload and gateway statuses worth another attempt.
var retryableStatus = []int{429, 503, 504, 529}

// Substrings of Vertex AI errors that signal a transient condition. Matched
// case-insensitively.
var transientGeminiMarkers = []string{
	"resource exhausted",
	"resource_exhausted",
	"429",
	"rate limit",
	"quota exceeded",
	"overloaded",
	"503",
	"internal error",
	"server error",
}

// IsRetryableClaudeError reports whether err is a rate limit, overloaded or
// transient server error from the Claude API.
func IsRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	return errors.As(err, &apiErr) && slices.Contains(retryableStatus, apiErr.StatusCode)
}

// IsRetryableGeminiError reports whether err is a rate limit, quota or
// transient server error from Vertex AI.
func IsRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return slices.ContainsFunc(transientGeminiMarkers, func(m string) bool {
		return strings.Contains(msg, m)
	})
}
