// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

/*
Package api is the HTTP serving layer in front of the recommendation engine.

It adapts the engine's operations to JSON endpoints under /api/v1. The
upstream pipeline (LLM query analysis, music search, enrichment) calls
these endpoints with candidate tracks it has already ranked.

Endpoints:

	POST /api/v1/users/{userID}/recommendations   personalize LLM-ranked candidates
	POST /api/v1/users/{userID}/feedback          record a 1..5 rating
	GET  /api/v1/users/{userID}/status            AI status (cold, trainable, active)
	POST /api/v1/users/{userID}/retrain           train the user's model now
	GET  /api/v1/users/{userID}/insights          learning insights
	GET  /api/v1/users/{userID}/performance       accuracy history and feature importance
	POST /api/v1/users/{userID}/query-context     append learned patterns to a query
	GET  /api/v1/health/live, /api/v1/health/ready
	GET  /metrics                                 Prometheus exposition

Response envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","request_id":"..."}}
	{"status":"error","data":null,"error":{"code":"VALIDATION_ERROR","message":"..."},"metadata":{...}}

Middleware order: request id, real IP and panic recovery then CORS run
globally. User routes add per-IP rate limiting (go-chi/httprate), the user
logging context, Prometheus request metrics and gzip.

Request bodies are decoded with goccy/go-json and validated with
go-playground/validator through internal/validation.
*/
package api
