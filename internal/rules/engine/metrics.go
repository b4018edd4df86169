// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ruleengine",
		Subsystem: "evaluate",
		Name:      "duration_seconds",
		Help:      "Time spent evaluating one object against a set of rule files.",
		Buckets:   prometheus.DefBuckets,
	})

	rulesFilesEvaluated = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ruleengine",
		Subsystem: "evaluate",
		Name:      "rule_files",
		Help:      "Number of rule files walked per evaluation.",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
	})

	violationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ruleengine",
		Subsystem: "evaluate",
		Name:      "violations_total",
		Help:      "Total number of ASSERT violations emitted across all evaluations.",
	})

	templatesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ruleengine",
		Subsystem: "evaluate",
		Name:      "templates_applied_total",
		Help:      "Total number of distinct APPLY template identifiers recorded across all evaluations.",
	})
)

// RecordEvaluationMetrics records observability for a single Evaluate call.
func RecordEvaluationMetrics(duration time.Duration, ruleFileCount, violationCount, templateCount int) {
	evaluationDuration.Observe(duration.Seconds())
	rulesFilesEvaluated.Observe(float64(ruleFileCount))
	violationsEmitted.Add(float64(violationCount))
	templatesApplied.Add(float64(templateCount))
}
