// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, 0)
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine not initialized", nil)
		return
	}

	dbConnected := true
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.db.Ping(ctx)
		cancel()
		if err != nil {
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Database not reachable", err)
			return
		}
	}

	respondSuccess(w, r, map[string]interface{}{
		"ready":              true,
		"database_connected": dbConnected,
	}, 0)
}
