// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_predictions_total",
			Help: "Total number of KPI predictions served, by source",
		},
		[]string{"source"}, // model | baseline | degraded
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_prediction_errors_total",
			Help: "Total number of failed prediction requests",
		},
		[]string{"error_code"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "kpi_prediction_duration_seconds",
			Help: "End-to-end duration of one simulation request",
		},
	)

	ArtifactCacheChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_artifact_cache_checks_total",
			Help: "Artifact bundle cache checks by outcome",
		},
		[]string{"outcome"}, // hit | miss
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kpi_sessions_active",
			Help: "Number of sessions currently tracked by the in-memory store",
		},
	)
)
