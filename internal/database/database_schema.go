// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

/*
database_schema.go - Database Schema Management

Tables:
  - feedback: one row per rating, with serialized track features, tags and
    request context captured at rating time
  - interactions: one row per served recommendation response; the
    recommendations column holds the JSON track list used for diversity
  - user_model_performance: one row per successful training run

All columns use types accepted by both DuckDB and SQLite. JSON payloads are
stored as TEXT and decoded with goccy/go-json.

Indexes are created by versioned migrations (migrations.go).
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// Table names, also used as metric labels.
const (
	tableFeedback     = "feedback"
	tableInteractions = "interactions"
	tablePerformance  = "user_model_performance"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// getTableCreationQueries returns one CREATE TABLE statement per table.
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS feedback (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			interaction_id TEXT NOT NULL DEFAULT '',
			track_id TEXT NOT NULL,
			track_name TEXT NOT NULL DEFAULT '',
			artist TEXT NOT NULL DEFAULT '',
			album TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			predicted_rating DOUBLE,
			rl_confidence DOUBLE,
			feedback_text TEXT NOT NULL DEFAULT '',
			track_features TEXT NOT NULL DEFAULT '',
			track_tags TEXT NOT NULL DEFAULT '',
			context_data TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			popularity DOUBLE NOT NULL DEFAULT 0,
			relevance_score DOUBLE NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			query_text TEXT NOT NULL DEFAULT '',
			recommendations TEXT NOT NULL DEFAULT '[]',
			mood_analysis TEXT,
			musical_context TEXT,
			rl_enhanced BOOLEAN NOT NULL DEFAULT FALSE,
			hybrid_score DOUBLE NOT NULL DEFAULT 0,
			processing_time_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_model_performance (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			accuracy DOUBLE NOT NULL,
			mae DOUBLE NOT NULL,
			rmse DOUBLE NOT NULL,
			cv_score DOUBLE NOT NULL,
			training_samples INTEGER NOT NULL,
			feature_importance TEXT NOT NULL DEFAULT '[]',
			model_version TEXT NOT NULL DEFAULT '',
			recorded_at TIMESTAMP NOT NULL
		)`,
	}
}
