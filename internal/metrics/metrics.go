// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/menurec/internal/recommend"
)

// Snapshot load outcomes.
const (
	LoadOutcomeSuccess = "success"
	LoadOutcomeFailure = "failure"
)

var (
	// Prediction Metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_predictions_total",
			Help: "Total number of predictions served by model type",
		},
		[]string{"model_type"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menurec_prediction_duration_seconds",
			Help:    "Prediction latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"model_type"},
	)

	// Snapshot Metrics
	SnapshotLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_snapshot_loads_total",
			Help: "Total number of snapshot loads by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menurec_snapshot_load_duration_seconds",
			Help:    "Duration of load, map and train cycles in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	SnapshotRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menurec_snapshot_rows",
			Help: "Number of interaction records in the published snapshot",
		},
	)

	SnapshotRestaurants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "menurec_snapshot_restaurants",
			Help: "Number of restaurants in the published snapshot by status",
		},
		[]string{"status"}, // trained, skipped
	)

	SnapshotPublishedAt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menurec_snapshot_published_timestamp_seconds",
			Help: "Unix time the published snapshot was built",
		},
	)

	ModelTrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menurec_model_training_duration_seconds",
			Help:    "Per-restaurant classifier training time in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	ReloadRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_reload_requests_total",
			Help: "Total number of reload requests by trigger and result",
		},
		[]string{"trigger", "result"}, // trigger: http, nats; result: accepted, pending
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of order source queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "driver"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of order source query errors",
		},
		[]string{"operation", "driver", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordPrediction records one served prediction.
func RecordPrediction(modelType recommend.ModelType, duration time.Duration) {
	PredictionsTotal.WithLabelValues(string(modelType)).Inc()
	PredictionDuration.WithLabelValues(string(modelType)).Observe(duration.Seconds())
}

// RecordSnapshotLoad records the outcome of a load cycle.
func RecordSnapshotLoad(outcome string, duration time.Duration) {
	SnapshotLoadsTotal.WithLabelValues(outcome).Inc()
	SnapshotLoadDuration.Observe(duration.Seconds())
}

// RecordSnapshotInfo updates the gauges describing the published snapshot.
func RecordSnapshotInfo(info recommend.SnapshotInfo) {
	SnapshotRows.Set(float64(info.Rows))
	SnapshotRestaurants.WithLabelValues("trained").Set(float64(len(info.TrainedRestaurants)))
	SnapshotRestaurants.WithLabelValues("skipped").Set(float64(len(info.SkippedRestaurants)))
	SnapshotPublishedAt.Set(float64(info.BuiltAt.Unix()))
}

// RecordModelTraining records one restaurant's training time.
func RecordModelTraining(duration time.Duration) {
	ModelTrainingDuration.Observe(duration.Seconds())
}

// RecordReloadRequest records a reload trigger.
func RecordReloadRequest(trigger string, accepted bool) {
	result := "accepted"
	if !accepted {
		result = "pending"
	}
	ReloadRequestsTotal.WithLabelValues(trigger, result).Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, driver string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, driver).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, driver, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes the build information gauge.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}
