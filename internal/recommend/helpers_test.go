// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory Store. Slices are returned newest first where
// the contract says so.
type memStore struct {
	mu           sync.Mutex
	feedback     map[string][]models.FeedbackRecord
	interactions map[string][]models.Interaction
	performance  map[string][]models.PerformanceRecord
	seq          int

	// failFeedback makes every feedback read fail.
	failFeedback bool
	feedbackRead int
}

func newMemStore() *memStore {
	return &memStore{
		feedback:     make(map[string][]models.FeedbackRecord),
		interactions: make(map[string][]models.Interaction),
		performance:  make(map[string][]models.PerformanceRecord),
	}
}

func (s *memStore) GetFeedbackForUser(_ context.Context, userID string) ([]models.FeedbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedbackRead++
	if s.failFeedback {
		return nil, errStoreDown
	}
	src := s.feedback[userID]
	out := make([]models.FeedbackRecord, len(src))
	for i := range src {
		out[len(src)-1-i] = src[i]
	}
	return out, nil
}

func (s *memStore) AppendFeedback(_ context.Context, rec *models.FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.ID = fmt.Sprintf("fb-%d", s.seq)
	rec.CreatedAt = time.Now()
	s.feedback[rec.UserID] = append(s.feedback[rec.UserID], *rec)
	return nil
}

func (s *memStore) GetFeedbackCount(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFeedback {
		return 0, errStoreDown
	}
	return len(s.feedback[userID]), nil
}

func (s *memStore) AppendModelPerformance(_ context.Context, rec *models.PerformanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performance[rec.UserID] = append(s.performance[rec.UserID], *rec)
	return nil
}

func (s *memStore) GetModelPerformanceHistory(_ context.Context, userID string) ([]models.PerformanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PerformanceRecord(nil), s.performance[userID]...), nil
}

func (s *memStore) GetRecentInteractions(_ context.Context, userID string, limit int) ([]models.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.interactions[userID]
	var out []models.Interaction
	for i := len(src) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (s *memStore) LogInteraction(_ context.Context, in *models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	in.ID = fmt.Sprintf("in-%d", s.seq)
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.interactions[in.UserID] = append(s.interactions[in.UserID], *in)
	return nil
}

func (s *memStore) GetInteractionTimes(_ context.Context, userID string) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, 0, len(s.interactions[userID]))
	for i := range s.interactions[userID] {
		out = append(out, s.interactions[userID][i].CreatedAt)
	}
	return out, nil
}

// testConfig is DefaultConfig with a smaller forest.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Forest.Trees = 20
	cfg.Forest.MaxDepth = 6
	return cfg
}

func newTestEngine(t *testing.T, store Store, cfg *Config) *Engine {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	ms, _ := NewModelStore(context.Background(), nil, zerolog.Nop())
	e, err := NewEngine(cfg, store, ms, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

var testGenres = []string{"rock", "pop", "jazz", "electronic", "folk"}

// testTrack returns a distinct track. Energy and genre vary with i.
func testTrack(i int) models.Track {
	return models.Track{
		ID:             fmt.Sprintf("deezer:%d", i),
		Name:           fmt.Sprintf("Track %d", i),
		Artist:         fmt.Sprintf("Artist %d", i%4),
		Source:         models.SourceDeezer,
		Popularity:     float64(10 * (i % 10)),
		RelevanceScore: float64(50 - i),
		Features:       &models.AudioFeatures{Energy: models.Float(float64(i%10) / 10)},
		Tags:           []string{testGenres[i%len(testGenres)], "mood" + fmt.Sprint(i%3)},
	}
}

// seedFeedback stores n ratings. High-energy tracks are rated higher.
func seedFeedback(t *testing.T, s *memStore, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		track := testTrack(i)
		rating := 1 + (i%10)/2
		rec, err := models.NewFeedbackRecord(userID, track.ID, &track, nil, rating, "")
		if err != nil {
			t.Fatalf("NewFeedbackRecord() error = %v", err)
		}
		if err := s.AppendFeedback(context.Background(), rec); err != nil {
			t.Fatalf("AppendFeedback() error = %v", err)
		}
	}
}
