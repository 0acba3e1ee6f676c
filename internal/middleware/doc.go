// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

/*
Package middleware provides HTTP middleware for the recommendation API.

Key Components:

  - RequestID: request and correlation ids in the header and logging context
  - UserContext: copies the {userID} route parameter into the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation

All middleware has the chi signature func(http.Handler) http.Handler and is
installed with r.Use:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
	    r.Use(middleware.UserContext)
	    r.Use(middleware.PrometheusMetrics)
	    ...
	})

PrometheusMetrics labels requests with the matched chi route pattern rather
than the raw path, so per-user URLs do not create one series per user.
*/
package middleware
