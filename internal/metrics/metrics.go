// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package metrics

import (
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rl_training_runs_total",
			Help: "Total number of per-user model training runs",
		},
		[]string{"trigger", "outcome"},
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rl_training_duration_seconds",
			Help:    "Duration of per-user model training runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ModelAccuracy = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rl_model_accuracy",
			Help:    "Accuracy (1 - MAE/4) of freshly trained models",
			Buckets: []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1},
		},
	)

	ModelsResident = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rl_models_resident",
			Help: "Number of user models held in memory",
		},
	)

	// Prediction Metrics
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rl_predictions_total",
			Help: "Total number of rating predictions",
		},
		[]string{"outcome"},
	)

	Enhancements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rl_enhancements_total",
			Help: "Total number of ranking passes by mode",
		},
		[]string{"mode"}, // "personalized", "passthrough", "fallback"
	)

	// Context Cache Metrics
	ContextCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "context_cache_hits_total",
			Help: "Total number of context snapshot cache hits",
		},
	)

	ContextCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "context_cache_misses_total",
			Help: "Total number of context snapshot cache misses",
		},
	)

	ContextCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_cache_invalidations_total",
			Help: "Total number of explicit context snapshot invalidations",
		},
		[]string{"reason"},
	)

	// Model Persistence Metrics
	ModelStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_store_operations_total",
			Help: "Total number of model persistence operations",
		},
		[]string{"backend", "operation", "outcome"},
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

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordTraining records one training run. accuracy is observed only for
// successful runs.
func RecordTraining(trigger, outcome string, duration time.Duration, accuracy float64) {
	TrainingRuns.WithLabelValues(trigger, outcome).Inc()
	TrainingDuration.Observe(duration.Seconds())
	if outcome == "ok" {
		ModelAccuracy.Observe(accuracy)
	}
}

// RecordPrediction records a prediction outcome ("ok" or "degraded").
func RecordPrediction(outcome string) {
	Predictions.WithLabelValues(outcome).Inc()
}

// RecordEnhancement records one ranking pass.
func RecordEnhancement(mode string) {
	Enhancements.WithLabelValues(mode).Inc()
}

// RecordContextCache records a context cache lookup.
func RecordContextCache(hit bool) {
	if hit {
		ContextCacheHits.Inc()
	} else {
		ContextCacheMisses.Inc()
	}
}

// RecordModelStoreOp records a model persistence call.
func RecordModelStoreOp(backend, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	ModelStoreOperations.WithLabelValues(backend, operation, outcome).Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts one request rejected by the per-IP limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// SetAppInfo publishes the build information gauge.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// BreakerStateValue maps a breaker state name to the gauge encoding.
func BreakerStateValue(state string) float64 {
	switch strings.ToLower(state) {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordBreakerTransition updates the breaker gauge and transition counter.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerState.WithLabelValues(name).Set(BreakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
