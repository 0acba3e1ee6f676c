// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package api

import (
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend"
)

// userPath validates the {userID} URL parameter.
type userPath struct {
	UserID string `validate:"required,max=128,printascii"`
}

// RecommendationsRequest is the body of POST /users/{userID}/recommendations.
type RecommendationsRequest struct {
	Query string `json:"query" validate:"max=2000"`
	// Candidates are the LLM-ranked tracks, best first.
	Candidates   []models.Track             `json:"candidates" validate:"max=500,dive"`
	Context      *models.SituationalContext `json:"context"`
	LLMReasoning string                     `json:"llm_reasoning" validate:"max=20000"`
	// MaxResults of 0 uses the server default.
	MaxResults int `json:"max_results" validate:"min=0,max=100"`
	// UseRL defaults to true when omitted.
	UseRL *bool `json:"use_rl"`
}

func (req *RecommendationsRequest) toEngine(userID string) *recommend.RecommendationRequest {
	useRL := true
	if req.UseRL != nil {
		useRL = *req.UseRL
	}
	return &recommend.RecommendationRequest{
		UserID:       userID,
		Query:        req.Query,
		Candidates:   req.Candidates,
		Context:      req.Context,
		LLMReasoning: req.LLMReasoning,
		MaxResults:   req.MaxResults,
		UseRL:        useRL,
	}
}

// FeedbackRequest is the body of POST /users/{userID}/feedback.
type FeedbackRequest struct {
	TrackID       string `json:"track_id" validate:"required,max=256"`
	InteractionID string `json:"interaction_id" validate:"max=64"`
	Rating        int    `json:"rating" validate:"min=1,max=5"`
	Text          string `json:"feedback_text" validate:"max=2000"`
	// Track and Context are optional snapshots of what was rated.
	Track   *models.Track              `json:"track"`
	Context *models.SituationalContext `json:"context"`
}

func (req *FeedbackRequest) toEngine(userID string) *recommend.FeedbackInput {
	return &recommend.FeedbackInput{
		UserID:        userID,
		TrackID:       req.TrackID,
		InteractionID: req.InteractionID,
		Rating:        req.Rating,
		Text:          req.Text,
		Track:         req.Track,
		Context:       req.Context,
	}
}

// QueryContextRequest is the body of POST /users/{userID}/query-context.
type QueryContextRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

// QueryContextResponse carries the query with the user's learned patterns appended.
type QueryContextResponse struct {
	Query         string `json:"query"`
	EnhancedQuery string `json:"enhanced_query"`
	Enhanced      bool   `json:"enhanced"`
}
