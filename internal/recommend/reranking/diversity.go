// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package reranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// Penalty weights.
const (
	ArtistRepeatPenalty = 2.0
	TagOverlapPenalty   = 0.5
	MaxPenalty          = 10.0

	// DefaultTagPoolSize is how many of the most recently seen tags are compared.
	DefaultTagPoolSize = 10
)

// History is the recently-served summary used for diversity penalties.
type History struct {
	artists map[string]int
	tagPool map[string]struct{}
	tags    []string
}

// NewHistory summarizes recent, which must be ordered most recent first as
// the store returns it. The tag pool is the last tagPoolSize tags of the
// chronologically flattened recommendation lists.
func NewHistory(recent []models.Interaction, tagPoolSize int) *History {
	h := &History{
		artists: make(map[string]int),
		tagPool: make(map[string]struct{}),
	}

	var flat []string
	for i := len(recent) - 1; i >= 0; i-- {
		for j := range recent[i].Recommendations {
			track := &recent[i].Recommendations[j]
			if artist := normalize(track.Artist); artist != "" {
				h.artists[artist]++
			}
			flat = append(flat, track.Tags...)
		}
	}

	if tagPoolSize > 0 && len(flat) > tagPoolSize {
		flat = flat[len(flat)-tagPoolSize:]
	}
	for _, tag := range flat {
		if t := normalize(tag); t != "" {
			if _, seen := h.tagPool[t]; !seen {
				h.tags = append(h.tags, t)
			}
			h.tagPool[t] = struct{}{}
		}
	}
	return h
}

// Empty reports whether there is no history to penalize against.
func (h *History) Empty() bool {
	return h == nil || (len(h.artists) == 0 && len(h.tagPool) == 0)
}

// ArtistCount returns how often artist was recently recommended.
func (h *History) ArtistCount(artist string) int {
	if h == nil {
		return 0
	}
	return h.artists[normalize(artist)]
}

// TagPool returns the distinct tags in the pool, in the order first seen.
func (h *History) TagPool() []string {
	if h == nil {
		return nil
	}
	return slices.Clone(h.tags)
}

// Penalty scores how much track repeats recent recommendations, in [0, MaxPenalty].
func (h *History) Penalty(track *models.Track) float64 {
	if h.Empty() || track == nil {
		return 0
	}

	penalty := ArtistRepeatPenalty * float64(h.ArtistCount(track.Artist))

	seen := make(map[string]struct{}, len(track.Tags))
	overlap := 0
	for _, tag := range track.Tags {
		t := normalize(tag)
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := h.tagPool[t]; ok {
			overlap++
		}
	}
	penalty += TagOverlapPenalty * float64(overlap)

	return min(penalty, MaxPenalty)
}

// SortByEnhancedScore orders items by EnhancedScore, highest first. Ties keep
// their input order.
func SortByEnhancedScore(items []models.RankedTrack) {
	slices.SortStableFunc(items, func(a, b models.RankedTrack) int {
		return cmp.Compare(b.EnhancedScore, a.EnhancedScore)
	})
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
