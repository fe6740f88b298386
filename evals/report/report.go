/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import "chainguard.dev/gradekit/evals"

// Generator renders a collected observer tree and reports whether any
// namespace fell below threshold.
type Generator func(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool)

var _ Generator = Collected
