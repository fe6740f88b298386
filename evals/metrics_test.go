/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals_test

import (
	"testing"

	"chainguard.dev/gradekit/evals"
	"chainguard.dev/gradekit/grading"
	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsObserver(t *testing.T) {
	obs := evals.NewMetricsObserver("smoke", "/smoke/case-1/format_grader")
	if got := obs.Total(); got != 0 {
		t.Errorf("Total: got = %d, wanted = 0", got)
	}

	evals.Record(obs, grading.NewResult(9, grading.DefaultThreshold, "ok", nil))
	evals.Record(obs, grading.NewResult(3, grading.DefaultThreshold, "bad", nil))
	obs.Log("ignored")

	if got := obs.Total(); got != 2 {
		t.Errorf("Total: got = %d, wanted = 2", got)
	}

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() = %v", err)
	}

	got := map[string]float64{}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			var suite, ns bool
			for _, l := range m.GetLabel() {
				suite = suite || (l.GetName() == "suite" && l.GetValue() == "smoke")
				ns = ns || (l.GetName() == "namespace" && l.GetValue() == "/smoke/case-1/format_grader")
			}
			if !suite || !ns {
				continue
			}
			switch family.GetName() {
			case "gradekit_graded_total", "gradekit_grading_failures_total":
				got[family.GetName()] = m.GetCounter().GetValue()
			case "gradekit_grade":
				got[family.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	want := map[string]float64{
		"gradekit_graded_total":           2,
		"gradekit_grading_failures_total": 1,
		"gradekit_grade":                  0.3,
	}
	for name, w := range want {
		if got[name] != w {
			t.Errorf("%s: got = %v, wanted = %v", name, got[name], w)
		}
	}
}
