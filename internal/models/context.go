// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package models

import (
	"time"
)

// Mood defaults applied when the upstream analysis omits a dimension.
const (
	DefaultMoodIntensity = 0.5
	DefaultMoodValence   = 0.0
	DefaultMoodArousal   = 0.5

	DefaultEnergyPreference      = 0.5
	DefaultFamiliarityPreference = 0.5
)

// MoodAnalysis is the mood summary produced by the LLM stage.
type MoodAnalysis struct {
	PrimaryMood string   `json:"primary_mood,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	// Intensity in [0,1], default 0.5.
	Intensity *float64 `json:"intensity,omitempty"`
	// Valence in [-1,1], default 0.
	Valence *float64 `json:"valence,omitempty"`
	// Arousal in [0,1], default 0.5.
	Arousal *float64 `json:"arousal,omitempty"`
}

// IntensityOrDefault returns Intensity or its default.
func (m *MoodAnalysis) IntensityOrDefault() float64 {
	if m == nil {
		return DefaultMoodIntensity
	}
	return valueOr(m.Intensity, DefaultMoodIntensity)
}

// ValenceOrDefault returns Valence or its default.
func (m *MoodAnalysis) ValenceOrDefault() float64 {
	if m == nil {
		return DefaultMoodValence
	}
	return valueOr(m.Valence, DefaultMoodValence)
}

// ArousalOrDefault returns Arousal or its default.
func (m *MoodAnalysis) ArousalOrDefault() float64 {
	if m == nil {
		return DefaultMoodArousal
	}
	return valueOr(m.Arousal, DefaultMoodArousal)
}

// MusicalContext is the listening-situation summary produced by the LLM stage.
type MusicalContext struct {
	Activity string   `json:"activity,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	// EnergyPreference in [0,1], default 0.5.
	EnergyPreference *float64 `json:"energy_preference,omitempty"`
	// FamiliarityPreference in [0,1], default 0.5.
	FamiliarityPreference *float64 `json:"familiarity_preference,omitempty"`
}

// EnergyPreferenceOrDefault returns EnergyPreference or its default.
func (c *MusicalContext) EnergyPreferenceOrDefault() float64 {
	if c == nil {
		return DefaultEnergyPreference
	}
	return valueOr(c.EnergyPreference, DefaultEnergyPreference)
}

// FamiliarityPreferenceOrDefault returns FamiliarityPreference or its default.
func (c *MusicalContext) FamiliarityPreferenceOrDefault() float64 {
	if c == nil {
		return DefaultFamiliarityPreference
	}
	return valueOr(c.FamiliarityPreference, DefaultFamiliarityPreference)
}

// SituationalContext describes the circumstances of a request or rating.
// At is the local time used for the time-of-day features; callers stamp it
// when the request arrives so feature extraction stays a pure function.
type SituationalContext struct {
	At      time.Time       `json:"at"`
	Mood    *MoodAnalysis   `json:"mood_analysis,omitempty"`
	Musical *MusicalContext `json:"musical_context,omitempty"`
}

// IsZero reports whether the context carries no information at all. A zero
// context is treated the same as an absent one.
func (c *SituationalContext) IsZero() bool {
	return c == nil || (c.At.IsZero() && c.Mood == nil && c.Musical == nil)
}
