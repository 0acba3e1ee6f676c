// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

const (
	topInsightFeatures     = 5
	topHistoryFeatures     = 10
	learningSaturationSize = 50.0
)

// FeatureWeight pairs a feature name with its importance.
type FeatureWeight struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

// Insights describes a user's personalization state.
type Insights struct {
	ModelExists     bool    `json:"model_exists"`
	ModelAccuracy   float64 `json:"model_accuracy"`
	TrainingSamples int     `json:"training_samples"`
	Message         string  `json:"message,omitempty"`

	ModelQuality     string                     `json:"model_quality,omitempty"`
	TopFeatures      []FeatureWeight            `json:"top_features,omitempty"`
	Preferences      *models.PreferencePatterns `json:"preference_patterns,omitempty"`
	LastTrained      *time.Time                 `json:"last_trained,omitempty"`
	CVScore          float64                    `json:"cv_score"`
	LearningProgress float64                    `json:"learning_progress"`

	// Detail is only present for users with a model.
	Detail *InsightDetail `json:"detail,omitempty"`
}

// InsightDetail is the extended analysis shown alongside a trained model.
type InsightDetail struct {
	Moods    []string                `json:"moods"`
	Temporal models.TemporalPatterns `json:"temporal_patterns"`
	Ratings  RatingSummary           `json:"recommendation_stats"`
}

// PerformanceHistory is the accuracy-over-time view of a user's model.
type PerformanceHistory struct {
	AccuracyHistory   []models.PerformanceRecord `json:"accuracy_history"`
	FeatureImportance []FeatureWeight            `json:"feature_importance"`
}

// ModelQuality labels an accuracy value.
func ModelQuality(accuracy float64) string {
	switch {
	case accuracy >= 0.85:
		return "Excellent"
	case accuracy >= 0.75:
		return "Good"
	case accuracy >= 0.65:
		return "Fair"
	case accuracy >= 0.55:
		return "Learning"
	default:
		return "Poor"
	}
}

// topFeatures returns the n most important features, highest first.
func topFeatures(importance []float64, n int) []FeatureWeight {
	if len(importance) == 0 {
		return nil
	}
	weights := slices.Clone(importance)
	idx := make([]int, len(weights))
	floats.ArgsortStable(weights, idx)

	out := make([]FeatureWeight, 0, n)
	for i := len(idx) - 1; i >= 0 && len(out) < n; i-- {
		name := fmt.Sprintf("feature_%d", idx[i])
		if idx[i] < len(FeatureNames) {
			name = FeatureNames[idx[i]]
		}
		out = append(out, FeatureWeight{Name: name, Importance: importance[idx[i]]})
	}
	return out
}

// buildInsights assembles insights from a model (nil when absent) and the
// aggregated feedback views.
func buildInsights(
	m *UserModel,
	minSamples int,
	feedbackCount int,
	prefs models.PreferencePatterns,
	fb models.FeedbackPatterns,
	temporal models.TemporalPatterns,
	ratings RatingSummary,
) *Insights {
	if m == nil {
		return &Insights{
			TrainingSamples:  feedbackCount,
			Message:          fmt.Sprintf("Need %d more ratings to create model", max(0, minSamples-feedbackCount)),
			LearningProgress: math.Min(1, float64(feedbackCount)/learningSaturationSize),
		}
	}

	trained := m.TrainedAt
	return &Insights{
		ModelExists:      true,
		ModelAccuracy:    m.Performance.Accuracy,
		TrainingSamples:  m.Performance.TrainingSamples,
		ModelQuality:     ModelQuality(m.Performance.Accuracy),
		TopFeatures:      topFeatures(m.FeatureImportance, topInsightFeatures),
		Preferences:      &prefs,
		LastTrained:      &trained,
		CVScore:          m.Performance.CVScore,
		LearningProgress: math.Min(1, float64(m.Performance.TrainingSamples)/learningSaturationSize),
		Detail: &InsightDetail{
			Moods:    fb.PreferredMoods,
			Temporal: temporal,
			Ratings:  ratings,
		},
	}
}
