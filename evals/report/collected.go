/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"fmt"
	"strings"

	"chainguard.dev/gradekit/evals"
)

// Collected walks a collected observer tree and renders one row per
// namespace that observed items: the item count, pass rate and average
// grade. Failure messages follow the table. Returns the report and whether
// any namespace's pass rate or average grade fell below threshold.
func Collected(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool) {
	var buf bytes.Buffer
	table := newTable(&buf, "Namespace", "Items", "Pass Rate", "Avg Grade")

	var failures strings.Builder
	hasFailure := false

	obs.Walk(func(name string, rc *evals.ResultCollector) {
		total := rc.Total()
		if total == 0 {
			return
		}
		passRate, mean, graded := rc.Stats()

		rate := fmt.Sprintf("%.1f%%", passRate*100)
		below := passRate < threshold
		if below {
			rate = "❌ " + rate
		}

		avg := "-"
		if graded {
			avg = fmt.Sprintf("%.2f", mean)
			if mean < threshold {
				avg = "❌ " + avg
				below = true
			}
		}
		hasFailure = hasFailure || below

		_ = table.Append([]string{name, fmt.Sprint(total), rate, avg})

		for _, f := range rc.Failures() {
			fmt.Fprintf(&failures, "- %s: %s\n", name, f)
		}
	})
	_ = table.Render()

	if failures.Len() > 0 {
		buf.WriteString("\n### Failures\n\n")
		buf.WriteString(failures.String())
	}
	return buf.String(), hasFailure
}
