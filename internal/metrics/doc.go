// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at /metrics by the API router.

# Available Metrics

Prediction Metrics:
  - menurec_predictions_total: Predictions by model type (counter)
  - menurec_prediction_duration_seconds: Prediction latency (histogram)

Snapshot Metrics:
  - menurec_snapshot_loads_total: Load cycles by outcome (counter)
  - menurec_snapshot_load_duration_seconds: Load, map and train time (histogram)
  - menurec_snapshot_rows: Interaction records in the published snapshot (gauge)
  - menurec_snapshot_restaurants: Trained and skipped restaurants (gauge)
  - menurec_snapshot_published_timestamp_seconds: Build time of the snapshot (gauge)
  - menurec_model_training_duration_seconds: Per-restaurant training time (histogram)
  - menurec_reload_requests_total: Reload triggers by source and result (counter)

Database Metrics:
  - db_query_duration_seconds: Order source query time (histogram)
  - db_query_errors_total: Order source query errors (counter)

API Metrics:
  - api_requests_total: Requests by method, route and status (counter)
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Requests by result (counter)
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
  - circuit_breaker_state_transitions_total: State changes (counter)

# Usage

	start := time.Now()
	resp := engine.Predict(req)
	metrics.RecordPrediction(resp.ModelType, time.Since(start))
*/
package metrics
