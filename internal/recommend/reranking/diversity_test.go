// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package reranking

import (
	"testing"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

func interaction(tracks ...models.Track) models.Interaction {
	return models.Interaction{Recommendations: tracks}
}

func TestHistory_Penalty(t *testing.T) {
	// Most recent first.
	recent := []models.Interaction{
		interaction(models.Track{Artist: "Radiohead", Tags: []string{"alt", "Rock"}}),
		interaction(
			models.Track{Artist: "radiohead", Tags: []string{"indie"}},
			models.Track{Artist: "Bjork", Tags: []string{"electronic"}},
		),
	}
	h := NewHistory(recent, DefaultTagPoolSize)

	tests := []struct {
		name  string
		track models.Track
		want  float64
	}{
		{"no overlap", models.Track{Artist: "Miles Davis", Tags: []string{"jazz"}}, 0},
		{"artist twice", models.Track{Artist: "RADIOHEAD"}, 4},
		{"artist once and one tag", models.Track{Artist: "Bjork", Tags: []string{"Electronic"}}, 2.5},
		{"duplicate tags count once", models.Track{Artist: "x", Tags: []string{"rock", "ROCK"}}, 0.5},
		{"empty artist not penalized", models.Track{Tags: nil}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Penalty(&tt.track); got != tt.want {
				t.Errorf("Penalty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistory_PenaltyCapped(t *testing.T) {
	var recent []models.Interaction
	for i := 0; i < 8; i++ {
		recent = append(recent, interaction(models.Track{Artist: "Same", Tags: []string{"pop"}}))
	}
	h := NewHistory(recent, DefaultTagPoolSize)

	got := h.Penalty(&models.Track{Artist: "same", Tags: []string{"pop"}})
	if got != MaxPenalty {
		t.Errorf("Penalty() = %v, want %v", got, MaxPenalty)
	}
}

func TestHistory_PenaltyMonotonicInArtistCount(t *testing.T) {
	track := models.Track{Artist: "A", Tags: []string{"x"}}
	prev := -1.0
	for n := 0; n < 7; n++ {
		recent := make([]models.Interaction, n)
		for i := range recent {
			recent[i] = interaction(models.Track{Artist: "a"})
		}
		got := NewHistory(recent, DefaultTagPoolSize).Penalty(&track)
		if got < prev {
			t.Fatalf("penalty decreased from %v to %v at n=%d", prev, got, n)
		}
		prev = got
	}
}

func TestHistory_TagPoolKeepsMostRecent(t *testing.T) {
	older := make([]string, 10)
	for i := range older {
		older[i] = "old"
	}
	recent := []models.Interaction{
		interaction(models.Track{Tags: []string{"new1", "new2"}}),
		interaction(models.Track{Tags: older}),
	}
	h := NewHistory(recent, 3)

	pool := h.TagPool()
	want := map[string]bool{"old": true, "new1": true, "new2": true}
	if len(pool) != len(want) {
		t.Fatalf("TagPool() = %v, want old,new1,new2", pool)
	}
	for _, tag := range pool {
		if !want[tag] {
			t.Errorf("unexpected tag %q in pool", tag)
		}
	}

	h = NewHistory(recent, 2)
	if got := h.Penalty(&models.Track{Tags: []string{"old"}}); got != 0 {
		t.Errorf("old tag should have aged out of a 2-tag pool, penalty = %v", got)
	}
}

func TestHistory_Nil(t *testing.T) {
	var h *History
	if !h.Empty() {
		t.Error("nil History should be empty")
	}
	if got := h.Penalty(&models.Track{Artist: "a"}); got != 0 {
		t.Errorf("Penalty() on nil = %v, want 0", got)
	}
}

func TestSortByEnhancedScore_Stable(t *testing.T) {
	items := []models.RankedTrack{
		{Track: models.Track{ID: "a"}, EnhancedScore: 1},
		{Track: models.Track{ID: "b"}, EnhancedScore: 3},
		{Track: models.Track{ID: "c"}, EnhancedScore: 1},
		{Track: models.Track{ID: "d"}, EnhancedScore: 2},
	}
	SortByEnhancedScore(items)

	want := []string{"b", "d", "a", "c"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d] = %s, want %s", i, items[i].ID, id)
		}
	}
}
