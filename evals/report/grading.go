/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strings"

	"chainguard.dev/gradekit/grading/grader"
)

// Grading renders a batch report: the summary line, overall counts, a table
// of per-grader statistics and any item errors.
func Grading(r grader.Report) string {
	var out strings.Builder

	fmt.Fprintf(&out, "## Grading Report\n\n%s\n\n", r.Summary)
	fmt.Fprintf(&out, "- Total: %d (successful %d, failed %d)\n",
		r.TotalEvaluations, r.SuccessfulEvaluations, r.FailedEvaluations)
	fmt.Fprintf(&out, "- Passed: %d (%.1f%%)\n", r.PassedEvaluations, r.OverallPassRate*100)
	fmt.Fprintf(&out, "- Below threshold %.1f: %d\n\n", r.Threshold, r.BelowThreshold)

	if len(r.Graders) > 0 {
		var buf bytes.Buffer
		table := newTable(&buf, "Grader", "Count", "Average", "Min", "Max", "Passed", "Pass Rate", "Below")
		for _, name := range graderOrder(r.Graders) {
			s := r.Graders[name]
			avg := fmt.Sprintf("%.2f", s.AverageScore)
			if s.AverageScore < r.Threshold {
				avg = "❌ " + avg
			}
			_ = table.Append([]string{
				name,
				fmt.Sprint(s.Count),
				avg,
				fmt.Sprintf("%.2f", s.MinScore),
				fmt.Sprintf("%.2f", s.MaxScore),
				fmt.Sprint(s.PassedCount),
				fmt.Sprintf("%.1f%%", s.PassRate*100),
				fmt.Sprint(s.BelowThreshold),
			})
		}
		_ = table.Render()
		out.WriteString(buf.String())
		out.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		out.WriteString("### Errors\n\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&out, "- %s\n", e)
		}
	}
	return out.String()
}

// graderOrder lists the known graders first, then any others sorted.
func graderOrder(stats map[string]grader.GraderStats) []string {
	var names []string
	for _, n := range grader.Names() {
		if _, ok := stats[n]; ok {
			names = append(names, n)
		}
	}
	var extra []string
	for n := range stats {
		if !slices.Contains(names, n) {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Items renders one row per batch item with each grader's score. Failed
// items show their error.
func Items(items []grader.BatchItem) string {
	var buf bytes.Buffer
	headers := append([]string{"#"}, grader.Names()...)
	headers = append(headers, "Passed", "Error")
	table := newTable(&buf, headers...)

	for _, item := range items {
		row := []string{fmt.Sprint(item.Index)}
		for _, name := range grader.Names() {
			res, ok := item.Results[name]
			switch {
			case !ok:
				row = append(row, "-")
			case res.Passed:
				row = append(row, fmt.Sprintf("%.1f", res.Score))
			default:
				row = append(row, fmt.Sprintf("❌ %.1f", res.Score))
			}
		}
		passed := "no"
		if item.Passed {
			passed = "yes"
		}
		row = append(row, passed, item.Error)
		_ = table.Append(row)
	}
	_ = table.Render()
	return buf.String()
}
