// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend/reranking"
)

func candidates(n int) []models.Track {
	out := make([]models.Track, n)
	for i := range out {
		out[i] = testTrack(100 + i)
	}
	return out
}

func TestPredict_NoModelIsNeutral(t *testing.T) {
	e := newTestEngine(t, newMemStore(), nil)
	track := testTrack(1)

	out := e.Predict(context.Background(), "cold", &track, nil)
	if out.Status != StatusDegraded || out.Value != NeutralRating || !errors.Is(out.Err, ErrNoModel) {
		t.Errorf("Predict() = %+v, want degraded neutral", out)
	}
	if c := e.Confidence("cold"); c != 0 {
		t.Errorf("Confidence() = %v, want 0 without a model", c)
	}
}

func TestPredict_NilTrack(t *testing.T) {
	e := newTestEngine(t, newMemStore(), nil)
	out := e.Predict(context.Background(), "u1", nil, nil)
	if out.Value != NeutralRating || out.Status != StatusDegraded {
		t.Errorf("Predict(nil) = %+v, want degraded 3.0", out)
	}
}

func TestPredict_LazyTrainingAndRange(t *testing.T) {
	store := newMemStore()
	seedFeedback(t, store, "u1", 12)
	e := newTestEngine(t, store, nil)

	for _, track := range candidates(10) {
		out := e.Predict(context.Background(), "u1", &track, sampleContext(8))
		if !out.IsOK() {
			t.Fatalf("Predict() status = %v, err = %v", out.Status, out.Err)
		}
		if out.Value < 1 || out.Value > 5 {
			t.Errorf("Predict() = %v, want [1,5]", out.Value)
		}
	}
	if e.models.Get("u1") == nil {
		t.Fatal("lazy training did not store a model")
	}
	if c := e.Confidence("u1"); c < 0 || c > 1 {
		t.Errorf("Confidence() = %v, want [0,1]", c)
	}
}

func TestPredictWith_MismatchedModelDegrades(t *testing.T) {
	X, y := stepData(10)
	f, _ := FitForest(context.Background(), X, y, ForestConfig{Trees: 2, MaxDepth: 2})
	s, _ := FitScaler(X)
	m := &UserModel{Forest: f, Scaler: s}

	track := testTrack(1)
	out := predictWith(m, &track, nil)
	if out.Status != StatusDegraded || out.Value != NeutralRating {
		t.Errorf("predictWith() = %+v, want degraded neutral", out)
	}

	out = predictWith(&UserModel{}, &track, nil)
	if out.Status != StatusDegraded || out.Value != NeutralRating {
		t.Errorf("predictWith(empty model) = %+v, want degraded neutral", out)
	}
}

func TestModelConfidence(t *testing.T) {
	tests := []struct {
		acc     float64
		samples int
		want    float64
	}{
		{0.8, 50, 0.7*0.8 + 0.3},
		{0.8, 25, 0.7*0.8 + 0.15},
		{1.0, 500, 1.0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		m := &UserModel{Performance: Performance{Accuracy: tt.acc, TrainingSamples: tt.samples}}
		if got := modelConfidence(m); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("modelConfidence(%v, %d) = %v, want %v", tt.acc, tt.samples, got, tt.want)
		}
	}
}

func TestEnhance_PreservesCandidateSet(t *testing.T) {
	store := newMemStore()
	seedFeedback(t, store, "u1", 15)
	e := newTestEngine(t, store, nil)

	in := candidates(8)
	out := e.Enhance(context.Background(), "u1", in, nil, nil)
	if !out.IsOK() {
		t.Fatalf("Enhance() status = %v, err = %v", out.Status, out.Err)
	}
	if len(out.Value) != len(in) {
		t.Fatalf("len = %d, want %d", len(out.Value), len(in))
	}

	var gotIDs, wantIDs []string
	for i := range in {
		wantIDs = append(wantIDs, in[i].ID)
		gotIDs = append(gotIDs, out.Value[i].ID)
	}
	sort.Strings(gotIDs)
	sort.Strings(wantIDs)
	for i := range gotIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("ids = %v, want %v", gotIDs, wantIDs)
		}
	}

	for i := 1; i < len(out.Value); i++ {
		if out.Value[i].EnhancedScore > out.Value[i-1].EnhancedScore {
			t.Errorf("not sorted at %d", i)
		}
	}
	for _, r := range out.Value {
		if want := r.RelevanceScore + (r.PredictedRating-3)*5 - r.DiversityPenalty; math.Abs(r.EnhancedScore-want) > 1e-9 {
			t.Errorf("%s: EnhancedScore = %v, want %v", r.ID, r.EnhancedScore, want)
		}
	}
}

func TestEnhance_RepeatedArtistScenario(t *testing.T) {
	e := newTestEngine(t, newMemStore(), nil)

	var recent []models.Interaction
	for i := 0; i < 5; i++ {
		recent = append(recent, models.Interaction{Recommendations: []models.Track{{Artist: "Repeat"}}})
	}
	history := reranking.NewHistory(recent, reranking.DefaultTagPoolSize)

	out := e.Enhance(context.Background(), "cold", []models.Track{{ID: "x", Artist: "repeat", RelevanceScore: 20}}, nil, history)
	if len(out.Value) != 1 {
		t.Fatalf("len = %d, want 1", len(out.Value))
	}
	r := out.Value[0]
	if r.DiversityPenalty != 10 || r.Bonus != 0 || r.EnhancedScore != 10 {
		t.Errorf("penalty/bonus/score = %v/%v/%v, want 10/0/10", r.DiversityPenalty, r.Bonus, r.EnhancedScore)
	}
}

func TestEnhance_Empty(t *testing.T) {
	e := newTestEngine(t, newMemStore(), nil)
	out := e.Enhance(context.Background(), "u1", nil, nil, nil)
	if !out.IsOK() || len(out.Value) != 0 {
		t.Errorf("Enhance(nil) = %+v, want empty OK", out)
	}
}

func TestHybridConfidence(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		accuracy float64
		want     float64
	}{
		{"cold", 0, 0, 0.72},
		{"four samples", 4, 0.9, 0.72},
		{"partial", 5, 0.5, 0.48 + 0.4*0.35},
		{"well trained", 20, 0.9, 0.48 + 0.36},
		{"perfect", 100, 1, 0.88},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HybridConfidence(tt.samples, tt.accuracy)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("HybridConfidence() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("HybridConfidence() = %v, out of [0,1]", got)
			}
		})
	}
}

func TestHybridReasoning(t *testing.T) {
	original := []models.Track{{ID: "a"}, {ID: "b"}}

	same := []models.RankedTrack{{Track: original[0]}, {Track: original[1]}}
	if got := hybridReasoning("LLM says", original, same, 0); got != "LLM says" {
		t.Errorf("unchanged reasoning = %q", got)
	}

	swapped := []models.RankedTrack{{Track: original[1], Confidence: 0.9}, {Track: original[0]}}
	want := "LLM says\n\nPersonalization Notes: " +
		"I've personalized these recommendations based on your listening history. " +
		"I'm especially confident about 1 of these recommendations. " +
		"My recommendations are well-tuned to your preferences."
	if got := hybridReasoning("LLM says", original, swapped, 21); got != want {
		t.Errorf("reasoning = %q, want %q", got, want)
	}

	got := hybridReasoning("x", original, same, 6)
	if got != "x\n\nPersonalization Notes: I'm still learning your preferences - rate more tracks for better recommendations." {
		t.Errorf("learning reasoning = %q", got)
	}
}
