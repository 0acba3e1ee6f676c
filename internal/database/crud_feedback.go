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

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

const feedbackColumns = `
	id, user_id, interaction_id, track_id, track_name, artist, album,
	rating, predicted_rating, rl_confidence, feedback_text,
	track_features, track_tags, context_data,
	source, popularity, relevance_score, created_at`

// AppendFeedback inserts a rating. ID and CreatedAt are assigned when empty.
// Ratings outside 1..5 are rejected with ErrInvalidRating and nothing is written.
func (db *DB) AppendFeedback(ctx context.Context, rec *models.FeedbackRecord) (err error) {
	if rec.Rating < models.MinRating || rec.Rating > models.MaxRating {
		return fmt.Errorf("%w, got %d", ErrInvalidRating, rec.Rating)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", tableFeedback, start, err) }()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = db.now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	if rec.ID == "" {
		if rec.ID, err = db.newID(rec.CreatedAt); err != nil {
			return err
		}
	}

	query := `INSERT INTO feedback (` + feedbackColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.conn.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.InteractionID, rec.TrackID, rec.TrackName, rec.Artist, rec.Album,
		rec.Rating, nullableFloat(rec.PredictedRating), nullableFloat(rec.RLConfidence), rec.Text,
		rec.TrackFeatures, rec.TrackTags, rec.ContextData,
		rec.Source, rec.Popularity, rec.RelevanceScore, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// GetFeedbackForUser returns every rating by userID, most recent first.
func (db *DB) GetFeedbackForUser(ctx context.Context, userID string) (_ []models.FeedbackRecord, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", tableFeedback, start, err) }()

	query := `SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer closeWithLog(rows, db.logger, "feedback rows")

	var out []models.FeedbackRecord
	for rows.Next() {
		rec, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}
	return out, nil
}

// GetFeedbackCount returns the number of ratings stored for userID.
func (db *DB) GetFeedbackCount(ctx context.Context, userID string) (_ int, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("count", tableFeedback, start, err) }()

	var count int
	err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}

func scanFeedback(rows *sql.Rows) (models.FeedbackRecord, error) {
	var (
		rec        models.FeedbackRecord
		predicted  sql.NullFloat64
		confidence sql.NullFloat64
	)
	err := rows.Scan(
		&rec.ID, &rec.UserID, &rec.InteractionID, &rec.TrackID, &rec.TrackName, &rec.Artist, &rec.Album,
		&rec.Rating, &predicted, &confidence, &rec.Text,
		&rec.TrackFeatures, &rec.TrackTags, &rec.ContextData,
		&rec.Source, &rec.Popularity, &rec.RelevanceScore, &rec.CreatedAt,
	)
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("failed to scan feedback: %w", err)
	}
	rec.PredictedRating = floatPtr(predicted)
	rec.RLConfidence = floatPtr(confidence)
	return rec, nil
}

func nullableFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
