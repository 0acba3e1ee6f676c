// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package api

import (
	"context"
	"time"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend"
)

// Recommender is the engine surface the handlers call. *recommend.Engine
// implements it.
type Recommender interface {
	GetRecommendations(ctx context.Context, req *recommend.RecommendationRequest) *recommend.RecommendationResult
	ProcessFeedback(ctx context.Context, in *recommend.FeedbackInput) (*recommend.FeedbackResult, error)
	AIStatus(ctx context.Context, userID string) (*recommend.AIStatus, error)
	Retrain(ctx context.Context, userID string) (*recommend.RetrainResult, error)
	Insights(ctx context.Context, userID string) (*recommend.Insights, error)
	PerformanceHistory(ctx context.Context, userID string) (*recommend.PerformanceHistory, error)
	EnhanceQuery(ctx context.Context, userID, query string) (string, error)
}

// Pinger reports whether a dependency is reachable. *database.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response envelope, body decoding and validation
//   - handlers_health.go: liveness and readiness probes
//   - handlers_recommend.go: personalization endpoints
type Handler struct {
	engine Recommender
	db     Pinger

	// requestTimeout bounds engine calls; lazy training may run inside one.
	requestTimeout time.Duration
	startTime      time.Time
}

// NewHandler creates a handler. db may be nil, in which case readiness only
// reflects the engine.
func NewHandler(engine Recommender, db Pinger, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &Handler{
		engine:         engine,
		db:             db,
		requestTimeout: requestTimeout,
		startTime:      time.Now(),
	}
}
