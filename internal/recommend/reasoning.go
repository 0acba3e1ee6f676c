// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

const (
	highConfidenceThreshold = 0.8
	wellTunedSamples        = 20
	stillLearningSamples    = 5

	queryContextGenres = 3
	queryContextMoods  = 2
	highEnergy         = 0.7
	moderateEnergy     = 0.4
)

// hybridReasoning appends personalization notes to the LLM's explanation.
func hybridReasoning(llmReasoning string, original []models.Track, ranked []models.RankedTrack, samples int) string {
	var notes []string

	if orderChanged(original, ranked) {
		notes = append(notes, "I've personalized these recommendations based on your listening history")
	}

	confident := 0
	for i := range ranked {
		if ranked[i].Confidence > highConfidenceThreshold {
			confident++
		}
	}
	if confident > 0 {
		notes = append(notes, fmt.Sprintf("I'm especially confident about %d of these recommendations", confident))
	}

	switch {
	case samples > wellTunedSamples:
		notes = append(notes, "My recommendations are well-tuned to your preferences")
	case samples > stillLearningSamples:
		notes = append(notes, "I'm still learning your preferences - rate more tracks for better recommendations")
	}

	if len(notes) == 0 {
		return llmReasoning
	}
	return llmReasoning + "\n\nPersonalization Notes: " + strings.Join(notes, ". ") + "."
}

func orderChanged(original []models.Track, ranked []models.RankedTrack) bool {
	if len(original) != len(ranked) {
		return true
	}
	for i := range original {
		if original[i].ID != ranked[i].ID || original[i].Name != ranked[i].Name {
			return true
		}
	}
	return false
}

// EnhanceQuery appends the user's listening patterns to query so the
// language stage can take them into account. The query is returned
// unchanged when nothing is known about the user.
func (e *Engine) EnhanceQuery(ctx context.Context, userID, query string) (string, error) {
	snap, err := e.cache.GetOrBuild(ctx, userID)
	if err != nil {
		return query, err
	}
	return enhanceQuery(query, snap), nil
}

func enhanceQuery(query string, snap *ContextSnapshot) string {
	var parts []string

	if genres := snap.Preferences.PreferredGenres; len(genres) > 0 {
		if len(genres) > queryContextGenres {
			genres = genres[:queryContextGenres]
		}
		parts = append(parts, "User typically enjoys: "+strings.Join(genres, ", "))
	}

	if moods := snap.Feedback.PreferredMoods; len(moods) > 0 {
		if len(moods) > queryContextMoods {
			moods = moods[:queryContextMoods]
		}
		parts = append(parts, "Often seeks "+strings.Join(moods, " and ")+" music")
	}

	if energy := snap.Preferences.AverageEnergy; energy != nil && *energy > 0 {
		level := "low"
		switch {
		case *energy > highEnergy:
			level = "high"
		case *energy > moderateEnergy:
			level = "moderate"
		}
		parts = append(parts, "Typically prefers "+level+" energy music")
	}

	if len(parts) == 0 {
		return query
	}
	return query + "\n\nUser Pattern Context: " + strings.Join(parts, "; ")
}
