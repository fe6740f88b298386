/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package evals records grading outcomes into observers.
//
// An Observer receives one Increment per graded item, a Grade for its score
// and a Fail when it did not pass. Observers compose:
//
//   - NamespacedObserver arranges observers in a tree keyed by path, such as
//     /dataset/test-case/model_grader, and walks it in sorted order.
//   - ResultCollector keeps every failure message and grade for reporting.
//   - MetricsObserver exports counts and the latest grade to Prometheus.
//
// Record is the bridge from the graders: it reports a grading.Result to an
// observer, normalizing the score to the 0.0-1.0 range observers use.
//
// # Usage
//
//	obs := evals.NewNamespacedObserver(func(string) *evals.ResultCollector {
//		return evals.NewResultCollector(evals.Counter())
//	})
//	evals.Record(obs.Child("format_grader"), result)
//
// The report package renders a collected tree as text.
package evals
