// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/logging"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// userIDParam reads and validates the {userID} URL parameter. On failure it
// writes the error response and returns false.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondAPIError(w, r, apiErr)
		return "", false
	}
	return p.UserID, true
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.requestTimeout)
}

// GetRecommendations personalizes an LLM-ranked candidate list.
//
// Method: POST
// Path: /api/v1/users/{userID}/recommendations
//
// The engine degrades to the LLM order rather than failing, so this handler
// only returns errors for malformed requests.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req RecommendationsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	result := h.engine.GetRecommendations(ctx, req.toEngine(userID))
	if result.Tracks == nil {
		result.Tracks = []models.RankedTrack{}
	}
	respondSuccess(w, r, result, time.Since(start).Milliseconds())
}

// ProcessFeedback records a 1-5 rating for a recommended track.
//
// Method: POST
// Path: /api/v1/users/{userID}/feedback
func (h *Handler) ProcessFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req FeedbackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	result, err := h.engine.ProcessFeedback(ctx, req.toEngine(userID))
	if err != nil {
		if errors.Is(err, models.ErrInvalidRating) {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to record feedback", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("track_id", sanitizeLogValue(req.TrackID)).
		Int("rating", req.Rating).
		Bool("model_updated", result.ModelUpdated).
		Msg("Feedback recorded")

	respondSuccess(w, r, result, time.Since(start).Milliseconds())
}

// AIStatus reports whether personalization is active for the user.
//
// Method: GET
// Path: /api/v1/users/{userID}/status
func (h *Handler) AIStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	status, err := h.engine.AIStatus(ctx, userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to read AI status", err)
		return
	}
	respondSuccess(w, r, status, time.Since(start).Milliseconds())
}

// Retrain forces a training run for the user.
//
// Method: POST
// Path: /api/v1/users/{userID}/retrain
//
// Returns 200 with success=false when the user has too few ratings or a run
// is already in progress.
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	result, err := h.engine.Retrain(ctx, userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to retrain model", err)
		return
	}
	respondSuccess(w, r, result, time.Since(start).Milliseconds())
}

// Insights returns the user's learned preferences and model quality.
//
// Method: GET
// Path: /api/v1/users/{userID}/insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	insights, err := h.engine.Insights(ctx, userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to build insights", err)
		return
	}
	respondSuccess(w, r, insights, time.Since(start).Milliseconds())
}

// PerformanceHistory returns accuracy over time and current feature importance.
//
// Method: GET
// Path: /api/v1/users/{userID}/performance
func (h *Handler) PerformanceHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	history, err := h.engine.PerformanceHistory(ctx, userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to read performance history", err)
		return
	}
	respondSuccess(w, r, history, time.Since(start).Milliseconds())
}

// QueryContext appends the user's listening patterns to a search query.
//
// Method: POST
// Path: /api/v1/users/{userID}/query-context
//
// When the user's history cannot be read the query is returned unchanged.
func (h *Handler) QueryContext(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req QueryContextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	enhanced, err := h.engine.EnhanceQuery(ctx, userID, req.Query)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Query context unavailable, returning query unchanged")
		enhanced = req.Query
	}

	respondSuccess(w, r, &QueryContextResponse{
		Query:         req.Query,
		EnhancedQuery: enhanced,
		Enhanced:      enhanced != req.Query,
	}, time.Since(start).Milliseconds())
}
