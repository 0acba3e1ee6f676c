// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"time"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// Store is the data access contract the engine needs from the relational
// layer. It is implemented by the database package; tests use an in-memory fake.
type Store interface {
	// GetFeedbackForUser returns all of the user's ratings, most recent first.
	GetFeedbackForUser(ctx context.Context, userID string) ([]models.FeedbackRecord, error)

	// AppendFeedback stores a new rating and assigns its ID and CreatedAt.
	AppendFeedback(ctx context.Context, rec *models.FeedbackRecord) error

	// GetFeedbackCount returns the user's total rating count.
	GetFeedbackCount(ctx context.Context, userID string) (int, error)

	// AppendModelPerformance writes one performance-history row.
	AppendModelPerformance(ctx context.Context, rec *models.PerformanceRecord) error

	// GetModelPerformanceHistory returns the user's rows, oldest first.
	GetModelPerformanceHistory(ctx context.Context, userID string) ([]models.PerformanceRecord, error)

	// GetRecentInteractions returns up to limit interactions, most recent first.
	GetRecentInteractions(ctx context.Context, userID string, limit int) ([]models.Interaction, error)

	// LogInteraction stores a served recommendation response and assigns its ID.
	LogInteraction(ctx context.Context, in *models.Interaction) error

	// GetInteractionTimes returns the timestamps of all the user's interactions.
	GetInteractionTimes(ctx context.Context, userID string) ([]time.Time, error)
}
