/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

// Tee returns an Observer that forwards every call to each of obs. Total
// reports the first observer's count.
func Tee(obs ...Observer) Observer {
	return tee(obs)
}

type tee []Observer

func (t tee) Fail(msg string) {
	for _, o := range t {
		o.Fail(msg)
	}
}

func (t tee) Log(msg string) {
	for _, o := range t {
		o.Log(msg)
	}
}

func (t tee) Grade(score float64, reasoning string) {
	for _, o := range t {
		o.Grade(score, reasoning)
	}
}

func (t tee) Increment() {
	for _, o := range t {
		o.Increment()
	}
}

func (t tee) Total() int64 {
	if len(t) == 0 {
		return 0
	}
	return t[0].Total()
}
