// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package models

import (
	"time"
)

// Interaction is one logged recommendation response. The recommended tracks
// feed the diversity penalty for later requests.
type Interaction struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Query            string          `json:"query"`
	Recommendations  []Track         `json:"recommendations"`
	Mood             *MoodAnalysis   `json:"mood_analysis,omitempty"`
	Musical          *MusicalContext `json:"musical_context,omitempty"`
	RLEnhanced       bool            `json:"rl_enhanced"`
	HybridScore      float64         `json:"hybrid_score"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
	CreatedAt        time.Time       `json:"timestamp"`
}

// PreferencePatterns summarizes what a user rated highly (rating >= 4).
type PreferencePatterns struct {
	PreferredArtists []string `json:"preferred_artists,omitempty"`
	PreferredGenres  []string `json:"preferred_genres,omitempty"`
	AverageEnergy    *float64 `json:"average_energy,omitempty"`
}

// FeedbackPatterns summarizes a user's rating behaviour.
type FeedbackPatterns struct {
	PreferredMoods []string `json:"preferred_moods"`
	AverageRating  float64  `json:"avg_rating"`
	TotalRatings   int      `json:"total_ratings"`
}

// TemporalPatterns summarizes when a user asks for music.
type TemporalPatterns struct {
	HourlyActivity map[int]int    `json:"hourly_activity"`
	DailyActivity  map[string]int `json:"daily_activity"`
	PeakHour       int            `json:"peak_hour"`
	PeakDay        string         `json:"peak_day"`
}
