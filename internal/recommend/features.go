// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// Feature vector layout. Trained models index feature importances by
// position, so the order below must never change.
const (
	audioFeatureCount    = 7
	metadataFeatureCount = 5
	sourceFeatureCount   = 5
	genreFeatureCount    = 8
	contextFeatureCount  = 10

	// FeatureCount is the fixed vector length, with or without context.
	FeatureCount = audioFeatureCount + metadataFeatureCount + sourceFeatureCount +
		genreFeatureCount + contextFeatureCount

	contextOffset = FeatureCount - contextFeatureCount
)

// GenreVocabulary is the fixed genre token list, in feature order.
var GenreVocabulary = []string{"rock", "pop", "electronic", "jazz", "classical", "hip-hop", "country", "folk"}

// FeatureNames lists the name of every dimension, in order.
var FeatureNames = [FeatureCount]string{
	"energy", "valence", "danceability", "acousticness", "instrumentalness",
	"tempo", "loudness",
	"popularity", "relevance_score", "title_length", "has_preview", "explicit",
	"source_deezer", "source_itunes", "source_lastfm", "source_musicbrainz", "source_audiodb",
	"genre_rock", "genre_pop", "genre_electronic", "genre_jazz", "genre_classical",
	"genre_hip_hop", "genre_country", "genre_folk",
	"hour_normalized", "is_morning", "is_afternoon", "is_evening", "is_night",
	"mood_intensity", "mood_valence", "mood_arousal",
	"energy_preference", "familiarity_preference",
}

// ExtractFeatures builds the feature vector for a track. It is a pure
// function: the hour comes from sc.At, not the wall clock.
//
// When sc is absent (nil or zero) the last 10 dimensions are zero. Any
// non-finite input is replaced by its documented default, so every output
// dimension is finite.
//
//nolint:gocritic // hugeParam: track passed by value, it is never mutated
func ExtractFeatures(track models.Track, sc *models.SituationalContext) []float64 {
	x := make([]float64, FeatureCount)
	i := 0
	put := func(v float64) {
		x[i] = finiteOr(v, 0)
		i++
	}

	// Audio
	f := track.Features.Resolved()
	put(f.Energy)
	put(f.Valence)
	put(f.Danceability)
	put(f.Acousticness)
	put(f.Instrumentalness)
	put(f.Tempo / 200.0)
	put((f.Loudness + 60) / 60.0)

	// Metadata
	put(track.Popularity / 100.0)
	put(track.RelevanceScore / 100.0)
	put(float64(utf8.RuneCountInString(track.Name)) / 50.0)
	put(boolFeature(track.PreviewURL != ""))
	put(boolFeature(track.Explicit))

	// Source one-hot; unknown sources leave every slot zero.
	for _, s := range models.KnownSources {
		put(boolFeature(track.Source == s))
	}

	// Genre presence
	lowered := make([]string, len(track.Tags))
	for j, tag := range track.Tags {
		lowered[j] = strings.ToLower(tag)
	}
	for _, genre := range GenreVocabulary {
		put(boolFeature(anyContains(lowered, genre)))
	}

	if sc.IsZero() {
		return x
	}

	// Time of day. The windows share their boundary hours.
	hour := sc.At.Hour()
	put(float64(hour) / 24.0)
	put(boolFeature(hour >= 6 && hour <= 12))
	put(boolFeature(hour >= 12 && hour <= 18))
	put(boolFeature(hour >= 18 && hour <= 24))
	put(boolFeature(hour >= 0 && hour <= 6))

	// Mood
	put(finiteOr(sc.Mood.IntensityOrDefault(), models.DefaultMoodIntensity))
	put(finiteOr(sc.Mood.ValenceOrDefault(), models.DefaultMoodValence))
	put(finiteOr(sc.Mood.ArousalOrDefault(), models.DefaultMoodArousal))

	// Musical context
	put(finiteOr(sc.Musical.EnergyPreferenceOrDefault(), models.DefaultEnergyPreference))
	put(finiteOr(sc.Musical.FamiliarityPreferenceOrDefault(), models.DefaultFamiliarityPreference))

	return x
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func anyContains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
