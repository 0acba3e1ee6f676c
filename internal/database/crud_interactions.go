// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

const interactionColumns = `
	id, user_id, query_text, recommendations, mood_analysis, musical_context,
	rl_enhanced, hybrid_score, processing_time_ms, created_at`

// LogInteraction stores a served recommendation response. ID and CreatedAt
// are assigned when empty.
func (db *DB) LogInteraction(ctx context.Context, in *models.Interaction) (err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", tableInteractions, start, err) }()

	recs := in.Recommendations
	if recs == nil {
		recs = []models.Track{}
	}
	recsJSON, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	moodJSON, err := marshalNullable(in.Mood)
	if err != nil {
		return fmt.Errorf("failed to marshal mood analysis: %w", err)
	}
	musicalJSON, err := marshalNullable(in.Musical)
	if err != nil {
		return fmt.Errorf("failed to marshal musical context: %w", err)
	}

	if in.CreatedAt.IsZero() {
		in.CreatedAt = db.now()
	}
	in.CreatedAt = in.CreatedAt.UTC()
	if in.ID == "" {
		if in.ID, err = db.newID(in.CreatedAt); err != nil {
			return err
		}
	}

	query := `INSERT INTO interactions (` + interactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.conn.ExecContext(ctx, query,
		in.ID, in.UserID, in.Query, string(recsJSON), moodJSON, musicalJSON,
		in.RLEnhanced, in.HybridScore, in.ProcessingTimeMS, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// GetRecentInteractions returns up to limit interactions for userID, most
// recent first. A non-positive limit returns nothing.
func (db *DB) GetRecentInteractions(ctx context.Context, userID string, limit int) (_ []models.Interaction, err error) {
	if limit <= 0 {
		return nil, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", tableInteractions, start, err) }()

	query := `SELECT ` + interactionColumns + `
		FROM interactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer closeWithLog(rows, db.logger, "interaction rows")

	var out []models.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}
	return out, nil
}

// GetInteractionTimes returns the timestamps of every interaction by userID,
// oldest first, in the server's local time zone.
func (db *DB) GetInteractionTimes(ctx context.Context, userID string) (_ []time.Time, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", tableInteractions, start, err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT created_at FROM interactions WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction times: %w", err)
	}
	defer closeWithLog(rows, db.logger, "interaction time rows")

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan interaction time: %w", err)
		}
		times = append(times, t.Local())
	}
	return times, rows.Err()
}

func scanInteraction(rows *sql.Rows) (models.Interaction, error) {
	var (
		in       models.Interaction
		recsJSON string
		mood     sql.NullString
		musical  sql.NullString
	)
	err := rows.Scan(
		&in.ID, &in.UserID, &in.Query, &recsJSON, &mood, &musical,
		&in.RLEnhanced, &in.HybridScore, &in.ProcessingTimeMS, &in.CreatedAt,
	)
	if err != nil {
		return models.Interaction{}, fmt.Errorf("failed to scan interaction: %w", err)
	}

	if recsJSON != "" {
		if err := json.Unmarshal([]byte(recsJSON), &in.Recommendations); err != nil {
			return models.Interaction{}, fmt.Errorf("failed to decode recommendations for %s: %w", in.ID, err)
		}
	}
	if mood.Valid && mood.String != "" {
		in.Mood = &models.MoodAnalysis{}
		if err := json.Unmarshal([]byte(mood.String), in.Mood); err != nil {
			return models.Interaction{}, fmt.Errorf("failed to decode mood analysis for %s: %w", in.ID, err)
		}
	}
	if musical.Valid && musical.String != "" {
		in.Musical = &models.MusicalContext{}
		if err := json.Unmarshal([]byte(musical.String), in.Musical); err != nil {
			return models.Interaction{}, fmt.Errorf("failed to decode musical context for %s: %w", in.ID, err)
		}
	}
	return in, nil
}

// marshalNullable encodes v as a JSON string, or SQL NULL when v is nil.
func marshalNullable[T any](v *T) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
