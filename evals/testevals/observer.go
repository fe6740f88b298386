/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package testevals adapts *testing.T to evals.Observer, so grading
// failures surface as test errors.
//
//	obs := evals.NewNamespacedObserver(func(name string) evals.Observer {
//		return testevals.NewPrefix(t, name)
//	})
//	evals.Record(obs.Child("format_grader"), result)
package testevals

import (
	"fmt"
	"sync/atomic"
	"testing"

	"chainguard.dev/gradekit/evals"
)

type observer struct {
	tb     testing.TB
	prefix string
	count  atomic.Int64
}

// New creates an Observer that reports through tb.
func New(tb testing.TB) evals.Observer {
	return &observer{tb: tb}
}

// NewPrefix creates an Observer that prefixes every message.
func NewPrefix(tb testing.TB, prefix string) evals.Observer {
	return &observer{tb: tb, prefix: prefix}
}

func (o *observer) msg(s string) string {
	if o.prefix != "" {
		return fmt.Sprintf("%s: %s", o.prefix, s)
	}
	return s
}

// Fail marks the test as failed.
func (o *observer) Fail(msg string) {
	o.tb.Helper()
	o.tb.Error(o.msg(msg))
}

// Log logs a message.
func (o *observer) Log(msg string) {
	o.tb.Helper()
	o.tb.Log(o.msg(msg))
}

// Grade logs the grade.
func (o *observer) Grade(score float64, reasoning string) {
	o.tb.Helper()
	o.tb.Log(o.msg(fmt.Sprintf("Grade: %.2f - %s", score, reasoning)))
}

// Increment counts an observation.
func (o *observer) Increment() {
	o.count.Add(1)
}

// Total returns the number of observations.
func (o *observer) Total() int64 {
	return o.count.Load()
}
