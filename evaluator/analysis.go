/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"chainguard.dev/gradekit/grading/grader"
)

const sampleLength = 200

// FailureSample is a truncated view of one failed case.
type FailureSample struct {
	Index          int               `json:"index"`
	Prompt         string            `json:"prompt"`
	ActualResponse string            `json:"actual_response"`
	FailureReason  string            `json:"failure_reason,omitempty"`
	Feedback       map[string]string `json:"feedback,omitempty"`
}

// FailureAnalysis groups a run's failures by cause.
type FailureAnalysis struct {
	Message                string          `json:"message,omitempty"`
	FailureCount           int             `json:"failure_count"`
	ErrorFailures          int             `json:"error_failures"`
	CodeGraderFailures     int             `json:"code_grader_failures"`
	ModelGraderFailures    int             `json:"model_grader_failures"`
	FormatGraderFailures   int             `json:"format_grader_failures"`
	MultipleGraderFailures int             `json:"multiple_grader_failures"`
	SampleFailures         []FailureSample `json:"sample_failures"`
}

// AnalyzeFailures categorizes the failed cases in s: errors, failures of a
// single grader, and failures of more than one grader. Up to maxDisplay
// failures are included as samples.
func AnalyzeFailures(s *Summary, maxDisplay int) FailureAnalysis {
	a := FailureAnalysis{SampleFailures: []FailureSample{}}

	for _, r := range s.Results {
		if r.Passed {
			continue
		}
		a.FailureCount++

		sample := FailureSample{
			Index:          r.Index,
			Prompt:         truncate(r.TestCase.Prompt),
			ActualResponse: truncate(r.ActualResponse),
		}

		if r.Error != "" {
			a.ErrorFailures++
			sample.FailureReason = "Error: " + r.Error
		} else {
			var failed []string
			sample.Feedback = map[string]string{}
			for _, name := range grader.Names() {
				res, ok := r.GradingResults[name]
				if !ok {
					continue
				}
				sample.Feedback[name] = res.Feedback
				if !res.Passed {
					failed = append(failed, name)
				}
			}
			switch {
			case len(failed) > 1:
				a.MultipleGraderFailures++
			case len(failed) == 1 && failed[0] == grader.CodeGrader:
				a.CodeGraderFailures++
			case len(failed) == 1 && failed[0] == grader.ModelGrader:
				a.ModelGraderFailures++
			case len(failed) == 1 && failed[0] == grader.FormatGrader:
				a.FormatGraderFailures++
			}
		}

		if len(a.SampleFailures) < maxDisplay {
			a.SampleFailures = append(a.SampleFailures, sample)
		}
	}

	if a.FailureCount == 0 {
		a.Message = "No failures to analyze!"
	}
	return a
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= sampleLength {
		return s
	}
	return string(r[:sampleLength]) + "..."
}
