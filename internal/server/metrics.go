package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kycdocs_uploaded_files_total",
		Help: "Number of files received across all cases.",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kycdocs_runs_total",
		Help: "Number of pipeline runs by outcome.",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kycdocs_run_duration_seconds",
		Help:    "Wall-clock duration of one pipeline run.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	runWarnings = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kycdocs_run_warnings",
		Help:    "Validation warnings per run.",
		Buckets: prometheus.LinearBuckets(0, 1, 11),
	})
)
