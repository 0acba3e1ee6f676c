// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// RecommendationRequest is one personalization request.
type RecommendationRequest struct {
	UserID string
	Query  string
	// Candidates are the LLM-ranked tracks, best first.
	Candidates   []models.Track
	Context      *models.SituationalContext
	LLMReasoning string
	// MaxResults <= 0 uses the configured default.
	MaxResults int
	UseRL      bool
}

// RecommendationResult is the personalized response.
type RecommendationResult struct {
	Tracks           []models.RankedTrack `json:"tracks"`
	Reasoning        string               `json:"reasoning"`
	HybridScore      float64              `json:"hybrid_score"`
	RLEnhanced       bool                 `json:"rl_enhanced"`
	Mode             string               `json:"mode"`
	Insights         *Insights            `json:"rl_insights,omitempty"`
	ProcessingTimeMS int64                `json:"processing_time_ms"`
	InteractionID    string               `json:"interaction_id,omitempty"`
}

// FeedbackInput is one rating submission. Track and Context are optional
// snapshots; without Track the engine looks the id up in recent interactions.
type FeedbackInput struct {
	UserID        string
	TrackID       string
	InteractionID string
	Rating        int
	Text          string
	Track         *models.Track
	Context       *models.SituationalContext
}

// FeedbackResult reports what a rating submission changed.
type FeedbackResult struct {
	Success      bool    `json:"success"`
	ModelUpdated bool    `json:"model_updated"`
	NewAccuracy  float64 `json:"new_accuracy"`
	Message      string  `json:"message"`
	FeedbackID   string  `json:"feedback_id,omitempty"`
}

// AIStatus summarizes a user's personalization state.
type AIStatus struct {
	LLMActive       bool    `json:"llm_active"`
	RLActive        bool    `json:"rl_active"`
	TrainingSamples int     `json:"training_samples"`
	Accuracy        float64 `json:"accuracy"`
	RLExploration   float64 `json:"rl_exploration"`
	RLLearningRate  float64 `json:"rl_learning_rate"`
	State           string  `json:"state"`
}

// RetrainResult reports an explicit retrain.
type RetrainResult struct {
	Success  bool    `json:"success"`
	Accuracy float64 `json:"accuracy"`
	Message  string  `json:"message"`
}
