// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	// Health probes are not rate limited.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Personalization Endpoints
	// ========================
	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.UserContext)
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Post("/recommendations", router.handler.GetRecommendations)
		r.Post("/feedback", router.handler.ProcessFeedback)
		r.Post("/query-context", router.handler.QueryContext)
		r.Post("/retrain", router.handler.Retrain)
		r.Get("/status", router.handler.AIStatus)
		r.Get("/insights", router.handler.Insights)
		r.Get("/performance", router.handler.PerformanceHistory)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
