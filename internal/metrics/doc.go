// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

/*
Package metrics provides Prometheus metrics for the personalization service.

All collectors are registered on the default registry via promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Training Metrics:
  - rl_training_runs_total: Training runs (counter)
    Labels: trigger (lazy, explicit, feedback, sweep), outcome (ok, insufficient, failed)
  - rl_training_duration_seconds: Wall time of a training run (histogram)
  - rl_model_accuracy: Accuracy of freshly trained models (histogram)
  - rl_models_resident: Number of user models held in memory (gauge)

Prediction Metrics:
  - rl_predictions_total: Rating predictions (counter)
    Labels: outcome (ok, degraded)
  - rl_enhancements_total: Ranking passes (counter)
    Labels: mode (personalized, passthrough, fallback)

Context Cache Metrics:
  - context_cache_hits_total, context_cache_misses_total (counters)
  - context_cache_invalidations_total (counter)
    Labels: reason (feedback, retrain)

Persistence Metrics:
  - model_store_operations_total: Save/load calls (counter)
    Labels: backend, operation, outcome
  - circuit_breaker_state: Breaker state (gauge)
    Labels: name. Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total (counter)

Database Metrics:
  - db_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - db_query_errors_total: Failed queries (counter)

HTTP Metrics:
  - api_requests_total: Requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Requests rejected by the limiter (counter)

Metric labels never include user ids.
*/
package metrics
