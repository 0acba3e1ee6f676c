// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package models

import (
	"math"
	"strings"
)

// Source identifies the upstream music catalog a track came from.
type Source string

// Known track sources. Anything else is treated as SourceUnknown.
const (
	SourceDeezer      Source = "deezer"
	SourceITunes      Source = "itunes"
	SourceLastFM      Source = "lastfm"
	SourceMusicBrainz Source = "musicbrainz"
	SourceAudioDB     Source = "audiodb"
	SourceUnknown     Source = "unknown"
)

// KnownSources is the fixed source vocabulary in feature order.
var KnownSources = []Source{SourceDeezer, SourceITunes, SourceLastFM, SourceMusicBrainz, SourceAudioDB}

// ParseSource normalizes a free-form source tag.
func ParseSource(s string) Source {
	normalized := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range KnownSources {
		if normalized == known {
			return known
		}
	}
	return SourceUnknown
}

// Default values used when an audio feature was not estimated upstream.
const (
	DefaultEnergy           = 0.5
	DefaultValence          = 0.5
	DefaultDanceability     = 0.5
	DefaultAcousticness     = 0.3
	DefaultInstrumentalness = 0.1
	DefaultTempo            = 120.0
	DefaultLoudness         = -8.0
)

// AudioFeatures holds estimated audio descriptors for a track.
// A nil field means "not estimated"; Resolved fills in the documented defaults.
type AudioFeatures struct {
	// Energy is perceptual intensity in [0,1].
	Energy *float64 `json:"energy,omitempty"`
	// Valence is musical positiveness in [0,1].
	Valence *float64 `json:"valence,omitempty"`
	// Danceability in [0,1].
	Danceability *float64 `json:"danceability,omitempty"`
	// Acousticness in [0,1].
	Acousticness *float64 `json:"acousticness,omitempty"`
	// Instrumentalness in [0,1].
	Instrumentalness *float64 `json:"instrumentalness,omitempty"`
	// Tempo in BPM, typically 40-220.
	Tempo *float64 `json:"tempo,omitempty"`
	// Loudness in dB, typically -60-0.
	Loudness *float64 `json:"loudness,omitempty"`
}

// ResolvedFeatures is AudioFeatures with every default applied.
type ResolvedFeatures struct {
	Energy           float64
	Valence          float64
	Danceability     float64
	Acousticness     float64
	Instrumentalness float64
	Tempo            float64
	Loudness         float64
}

// Resolved returns the features with defaults substituted for missing or
// non-finite values.
func (f *AudioFeatures) Resolved() ResolvedFeatures {
	if f == nil {
		f = &AudioFeatures{}
	}
	return ResolvedFeatures{
		Energy:           valueOr(f.Energy, DefaultEnergy),
		Valence:          valueOr(f.Valence, DefaultValence),
		Danceability:     valueOr(f.Danceability, DefaultDanceability),
		Acousticness:     valueOr(f.Acousticness, DefaultAcousticness),
		Instrumentalness: valueOr(f.Instrumentalness, DefaultInstrumentalness),
		Tempo:            valueOr(f.Tempo, DefaultTempo),
		Loudness:         valueOr(f.Loudness, DefaultLoudness),
	}
}

// Track is a candidate musical item produced by upstream search/enrichment.
// The personalization core reads tracks but never modifies them.
type Track struct {
	// ID is source-qualified, e.g. "deezer:3135556".
	ID     string `json:"id" validate:"required,max=256"`
	Name   string `json:"name" validate:"max=512"`
	Artist string `json:"artist" validate:"max=512"`
	Album  string `json:"album,omitempty" validate:"max=512"`
	Source Source `json:"source" validate:"tracksource"`
	// Popularity in [0,100].
	Popularity float64 `json:"popularity"`
	// RelevanceScore is the search-stage ranking score, unbounded.
	RelevanceScore float64 `json:"relevance_score"`
	// Features are the estimated audio features.
	Features *AudioFeatures `json:"estimated_features,omitempty"`
	// Tags are free-text genre/mood tags.
	Tags       []string `json:"tags,omitempty" validate:"max=64"`
	PreviewURL string   `json:"preview_url,omitempty"`
	Explicit   bool     `json:"explicit"`
}

// RankedTrack is a Track with the derived personalization fields attached.
type RankedTrack struct {
	Track
	PredictedRating  float64 `json:"rl_predicted_rating"`
	Confidence       float64 `json:"rl_confidence"`
	Bonus            float64 `json:"rl_bonus"`
	DiversityPenalty float64 `json:"diversity_penalty"`
	EnhancedScore    float64 `json:"enhanced_score"`
}

// Float returns a pointer to v. Handy for optional feature fields.
func Float(v float64) *float64 {
	return &v
}

func valueOr(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return def
	}
	return *v
}
