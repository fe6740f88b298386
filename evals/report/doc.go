/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package report renders grading results as markdown tables.

# Generators

  - Grading: a grader.Report as a summary followed by per-grader statistics
  - Items: one row per batch item with each grader's score
  - Collected: a NamespacedObserver tree of ResultCollectors, one row per
    namespace with items, pass rate and average grade

Collected matches the Generator signature:

	type Generator func(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool)

The boolean reports whether any namespace fell below threshold.

# Usage

	items := g.GradeBatch(ctx, evaluations, "python")
	fmt.Print(report.Grading(g.GenerateReport(items)))
	fmt.Print(report.Items(items))

All generators are pure functions of their input and safe for concurrent use.
*/
package report
