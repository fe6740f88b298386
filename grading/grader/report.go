/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grader

import (
	"fmt"
	"math"
)

// GraderStats summarizes one grader's results across a batch.
type GraderStats struct {
	Count          int     `json:"count"`
	AverageScore   float64 `json:"average_score"`
	MinScore       float64 `json:"min_score"`
	MaxScore       float64 `json:"max_score"`
	PassedCount    int     `json:"passed_count"`
	PassRate       float64 `json:"pass_rate"`
	BelowThreshold int     `json:"below_threshold"`
}

// Report summarizes a graded batch.
type Report struct {
	Summary               string                 `json:"summary"`
	TotalEvaluations      int                    `json:"total_evaluations"`
	SuccessfulEvaluations int                    `json:"successful_evaluations"`
	FailedEvaluations     int                    `json:"failed_evaluations"`
	PassedEvaluations     int                    `json:"passed_evaluations"`
	OverallPassRate       float64                `json:"overall_pass_rate"`
	BelowThreshold        int                    `json:"below_threshold"`
	Threshold             float64                `json:"threshold"`
	Graders               map[string]GraderStats `json:"graders"`
	Errors                []string               `json:"errors"`
}

// GenerateReport aggregates items. The result depends only on items and
// the grader's threshold; an empty batch yields zero statistics.
func (g *Grader) GenerateReport(items []BatchItem) Report {
	r := Report{
		TotalEvaluations: len(items),
		Threshold:        g.threshold,
		Graders:          map[string]GraderStats{},
		Errors:           []string{},
	}

	type acc struct {
		sum, min, max  float64
		count, passed  int
		belowThreshold int
	}
	accs := map[string]*acc{}

	for _, item := range items {
		if !item.Success {
			r.FailedEvaluations++
			msg := item.Error
			if msg == "" {
				msg = "Unknown error"
			}
			r.Errors = append(r.Errors, fmt.Sprintf("item %d: %s", item.Index, msg))
			continue
		}
		r.SuccessfulEvaluations++
		if item.Results.Passed() {
			r.PassedEvaluations++
		}

		below := false
		for name, res := range item.Results {
			a, ok := accs[name]
			if !ok {
				a = &acc{min: math.Inf(1), max: math.Inf(-1)}
				accs[name] = a
			}
			a.count++
			a.sum += res.Score
			a.min = math.Min(a.min, res.Score)
			a.max = math.Max(a.max, res.Score)
			if res.Passed {
				a.passed++
			}
			if res.Score < g.threshold {
				a.belowThreshold++
				below = true
			}
		}
		if below {
			r.BelowThreshold++
		}
	}

	for name, a := range accs {
		r.Graders[name] = GraderStats{
			Count:          a.count,
			AverageScore:   a.sum / float64(a.count),
			MinScore:       a.min,
			MaxScore:       a.max,
			PassedCount:    a.passed,
			PassRate:       float64(a.passed) / float64(a.count),
			BelowThreshold: a.belowThreshold,
		}
	}

	if r.SuccessfulEvaluations == 0 {
		r.Summary = "No successful evaluations"
		return r
	}
	r.OverallPassRate = float64(r.PassedEvaluations) / float64(r.SuccessfulEvaluations)
	r.Summary = fmt.Sprintf("Evaluated %d out of %d items successfully", r.SuccessfulEvaluations, r.TotalEvaluations)
	return r
}
