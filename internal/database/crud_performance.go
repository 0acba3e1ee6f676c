// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// AppendModelPerformance writes one row of a user's training history.
// RecordedAt defaults to now.
func (db *DB) AppendModelPerformance(ctx context.Context, rec *models.PerformanceRecord) (err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", tablePerformance, start, err) }()

	importance := rec.FeatureImportance
	if importance == nil {
		importance = []float64{}
	}
	importanceJSON, err := json.Marshal(importance)
	if err != nil {
		return fmt.Errorf("failed to marshal feature importance: %w", err)
	}

	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = db.now()
	}
	rec.RecordedAt = rec.RecordedAt.UTC()

	id, err := db.newID(rec.RecordedAt)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO user_model_performance (
			id, user_id, accuracy, mae, rmse, cv_score,
			training_samples, feature_importance, model_version, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.UserID, rec.Accuracy, rec.MAE, rec.RMSE, rec.CVScore,
		rec.TrainingSamples, string(importanceJSON), rec.ModelVersion, rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert model performance: %w", err)
	}
	return nil
}

// GetModelPerformanceHistory returns a user's training history, oldest first.
func (db *DB) GetModelPerformanceHistory(ctx context.Context, userID string) (_ []models.PerformanceRecord, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", tablePerformance, start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, accuracy, mae, rmse, cv_score,
			training_samples, feature_importance, model_version, recorded_at
		FROM user_model_performance
		WHERE user_id = ?
		ORDER BY recorded_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query model performance: %w", err)
	}
	defer closeWithLog(rows, db.logger, "performance rows")

	var out []models.PerformanceRecord
	for rows.Next() {
		var (
			rec            models.PerformanceRecord
			importanceJSON string
		)
		if err := rows.Scan(
			&rec.UserID, &rec.Accuracy, &rec.MAE, &rec.RMSE, &rec.CVScore,
			&rec.TrainingSamples, &importanceJSON, &rec.ModelVersion, &rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan model performance: %w", err)
		}
		if importanceJSON != "" {
			if err := json.Unmarshal([]byte(importanceJSON), &rec.FeatureImportance); err != nil {
				return nil, fmt.Errorf("failed to decode feature importance: %w", err)
			}
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate model performance: %w", err)
	}
	return out, nil
}
