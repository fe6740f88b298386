/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gradedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradekit_graded_total",
			Help: "Total number of responses graded",
		},
		[]string{"suite", "namespace"},
	)

	failureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradekit_grading_failures_total",
			Help: "Total number of graded responses that did not pass",
		},
		[]string{"suite", "namespace"},
	)

	gradeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gradekit_grade",
			Help: "Most recent grade (0.0-1.0)",
		},
		[]string{"suite", "namespace"},
	)
)

// MetricsObserver implements Observer with Prometheus metrics.
type MetricsObserver struct {
	suite     string
	namespace string
	total     atomic.Int64

	gradedCounter  prometheus.Counter
	failureCounter prometheus.Counter
	gradeGauge     prometheus.Gauge
}

var _ Observer = (*MetricsObserver)(nil)

// NewMetricsObserver creates a metrics observer for namespace within suite.
func NewMetricsObserver(suite, namespace string) *MetricsObserver {
	labels := prometheus.Labels{"suite": suite, "namespace": namespace}
	return &MetricsObserver{
		suite:          suite,
		namespace:      namespace,
		gradedCounter:  gradedCounter.With(labels),
		failureCounter: failureCounter.With(labels),
		gradeGauge:     gradeGauge.With(labels),
	}
}

// Increment implements Observer.
func (m *MetricsObserver) Increment() {
	m.total.Add(1)
	m.gradedCounter.Inc()
}

// Fail implements Observer.
func (m *MetricsObserver) Fail(string) {
	m.failureCounter.Inc()
}

// Grade implements Observer.
func (m *MetricsObserver) Grade(score float64, _ string) {
	m.gradeGauge.Set(score)
}

// Log implements Observer. Metrics carry no log lines.
func (m *MetricsObserver) Log(string) {}

// Total implements Observer.
func (m *MetricsObserver) Total() int64 {
	return m.total.Load()
}
