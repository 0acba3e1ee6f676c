// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package database

import (
	"context"
	"testing"
	"time"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

func TestModelPerformance_OldestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rows := []models.PerformanceRecord{
		{UserID: "u1", Accuracy: 0.7, MAE: 1.2, RMSE: 1.4, CVScore: 0.3, TrainingSamples: 6, ModelVersion: "v2", RecordedAt: baseTime.Add(time.Hour)},
		{UserID: "u1", Accuracy: 0.6, MAE: 1.6, RMSE: 1.9, CVScore: 0.1, TrainingSamples: 5, ModelVersion: "v1", RecordedAt: baseTime},
		{UserID: "u2", Accuracy: 0.9, TrainingSamples: 40, RecordedAt: baseTime},
	}
	rows[0].FeatureImportance = []float64{0.5, 0.25, 0.25}
	for i := range rows {
		if err := db.AppendModelPerformance(ctx, &rows[i]); err != nil {
			t.Fatalf("AppendModelPerformance() error = %v", err)
		}
	}

	got, err := db.GetModelPerformanceHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("GetModelPerformanceHistory() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ModelVersion != "v1" || got[1].ModelVersion != "v2" {
		t.Errorf("order = %s, %s; want v1, v2", got[0].ModelVersion, got[1].ModelVersion)
	}
	if got[1].TrainingSamples != 6 || got[1].MAE != 1.2 || got[1].RMSE != 1.4 || got[1].CVScore != 0.3 {
		t.Errorf("row = %+v", got[1])
	}
	if len(got[1].FeatureImportance) != 3 || got[1].FeatureImportance[0] != 0.5 {
		t.Errorf("FeatureImportance = %v", got[1].FeatureImportance)
	}
	if len(got[0].FeatureImportance) != 0 {
		t.Errorf("empty importance = %v, want none", got[0].FeatureImportance)
	}
	if !got[0].RecordedAt.Equal(baseTime) {
		t.Errorf("RecordedAt = %v, want %v", got[0].RecordedAt, baseTime)
	}
}

func TestModelPerformance_DefaultsRecordedAt(t *testing.T) {
	db := setupTestDB(t)
	db.now = func() time.Time { return baseTime }

	rec := &models.PerformanceRecord{UserID: "u1", Accuracy: 0.5}
	if err := db.AppendModelPerformance(context.Background(), rec); err != nil {
		t.Fatalf("AppendModelPerformance() error = %v", err)
	}
	if !rec.RecordedAt.Equal(baseTime) {
		t.Errorf("RecordedAt = %v, want %v", rec.RecordedAt, baseTime)
	}
}
