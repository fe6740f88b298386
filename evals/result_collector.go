/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"slices"
	"sync"
)

// Grade is a normalized score in [0, 1] and the feedback behind it.
type Grade struct {
	Score     float64
	Reasoning string
}

// ResultCollector keeps every grade and failure it observes so they can be
// reported once grading finishes. Counting is delegated to an inner
// Observer.
type ResultCollector struct {
	inner Observer

	mu       sync.Mutex
	failures []string
	grades   []Grade
}

var _ Observer = (*ResultCollector)(nil)

// NewResultCollector creates a ResultCollector over inner. A nil inner
// observer only counts.
func NewResultCollector(inner Observer) *ResultCollector {
	if inner == nil {
		inner = Counter()
	}
	return &ResultCollector{inner: inner}
}

// Fail implements Observer.
func (r *ResultCollector) Fail(msg string) {
	r.inner.Fail(msg)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, msg)
}

// Log implements Observer.
func (r *ResultCollector) Log(msg string) { r.inner.Log(msg) }

// Grade implements Observer.
func (r *ResultCollector) Grade(score float64, reasoning string) {
	r.inner.Grade(score, reasoning)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.grades = append(r.grades, Grade{Score: score, Reasoning: reasoning})
}

// Increment implements Observer.
func (r *ResultCollector) Increment() { r.inner.Increment() }

// Total implements Observer.
func (r *ResultCollector) Total() int64 { return r.inner.Total() }

// Failures returns the failure messages seen so far.
func (r *ResultCollector) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.failures)
}

// Grades returns the grades seen so far.
func (r *ResultCollector) Grades() []Grade {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.grades)
}

// Stats summarizes the collected results: the fraction of counted items
// that did not fail and the mean grade. hasGrades is false when nothing was
// graded.
func (r *ResultCollector) Stats() (passRate, meanGrade float64, hasGrades bool) {
	total := r.Total()

	r.mu.Lock()
	defer r.mu.Unlock()
	if total > 0 {
		passRate = float64(total-int64(len(r.failures))) / float64(total)
	}
	if len(r.grades) == 0 {
		return passRate, 0, false
	}
	var sum float64
	for _, g := range r.grades {
		sum += g.Score
	}
	return passRate, sum / float64(len(r.grades)), true
}
