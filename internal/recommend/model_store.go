// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/metrics"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend/storage"
)

// ModelVersion tags models produced by this package.
const ModelVersion = "1.0"

// modelsBlobKey is the storage key holding the whole model collection.
const modelsBlobKey = "user_models"

// Performance is the evaluation record of one training run.
type Performance struct {
	MAE             float64
	RMSE            float64
	CVScore         float64
	Accuracy        float64
	TrainingSamples int
	TestSamples     int
}

// UserModel is one user's fitted model. It is immutable once built; a
// retrain produces a new value that replaces the old pointer.
type UserModel struct {
	UserID            string
	Forest            *Forest
	Scaler            *Scaler
	FeatureImportance []float64
	Performance       Performance
	TrainedAt         time.Time
	Version           string
	// FeedbackCount is the user's total rating count when the model was trained.
	FeedbackCount int
}

// modelSet is the persisted form of the collection.
type modelSet struct {
	Models  map[string]*UserModel
	SavedAt time.Time
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(modelSet{})
	gob.Register(&UserModel{})
}

// ModelStore owns the resident user-model collection. The map is guarded by
// an RWMutex; the models themselves are immutable, so a pointer read under
// RLock is safe to use after the lock is released.
type ModelStore struct {
	persister storage.Persister
	logger    zerolog.Logger

	mu      sync.RWMutex
	models  map[string]*UserModel
	version int

	// saveMu serializes snapshot writes; savedVersion drops stale snapshots
	// that lost the race to a newer one.
	saveMu       sync.Mutex
	savedVersion int
}

// NewModelStore loads the collection once. A missing or corrupt blob is
// logged and yields an empty collection; it never fails construction.
// The returned Outcome is Degraded when the blob existed but could not be read.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelStore(ctx context.Context, p storage.Persister, logger zerolog.Logger) (*ModelStore, Outcome[int]) {
	s := &ModelStore{
		persister: p,
		logger:    logger.With().Str("component", "model_store").Logger(),
		models:    make(map[string]*UserModel),
	}

	if p == nil {
		return s, OK(0)
	}

	var set modelSet
	meta, err := p.Load(ctx, modelsBlobKey, &set)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info().Msg("no persisted models, starting empty")
		return s, OK(0)
	case err != nil:
		s.logger.Error().Err(err).Str("backend", p.Backend()).Msg("failed to load models, starting empty")
		return s, Degraded(0, "model blob unreadable", err)
	}

	for userID, m := range set.Models {
		if m == nil || m.Forest == nil || m.Scaler == nil {
			s.logger.Warn().Str("user_id", userID).Msg("dropping incomplete persisted model")
			continue
		}
		s.models[userID] = m
	}
	s.version = meta.Version
	metrics.ModelsResident.Set(float64(len(s.models)))

	s.logger.Info().Int("models", len(s.models)).Int("version", s.version).Msg("loaded user models")
	return s, OK(len(s.models))
}

// Get returns the user's model or nil.
func (s *ModelStore) Get(userID string) *UserModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.models[userID]
}

// Len returns the number of resident models.
func (s *ModelStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}

// UserIDs returns the ids of all users with a model.
func (s *ModelStore) UserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.models))
	for id := range s.models {
		ids = append(ids, id)
	}
	return ids
}

// Put swaps in m for its user and persists the whole collection. The swap is
// visible immediately; a persistence failure is returned but does not undo it.
func (s *ModelStore) Put(ctx context.Context, m *UserModel) error {
	s.mu.Lock()
	s.models[m.UserID] = m
	s.version++
	snapshot := make(map[string]*UserModel, len(s.models))
	for k, v := range s.models {
		snapshot[k] = v
	}
	version := s.version
	s.mu.Unlock()

	metrics.ModelsResident.Set(float64(len(snapshot)))
	return s.save(ctx, snapshot, version)
}

// SaveAll persists the current collection.
func (s *ModelStore) SaveAll(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make(map[string]*UserModel, len(s.models))
	for k, v := range s.models {
		snapshot[k] = v
	}
	version := s.version
	s.mu.RUnlock()

	return s.save(ctx, snapshot, version)
}

func (s *ModelStore) save(ctx context.Context, snapshot map[string]*UserModel, version int) error {
	if s.persister == nil {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if version < s.savedVersion {
		return nil
	}

	set := modelSet{Models: snapshot, SavedAt: time.Now()}
	err := s.persister.Save(ctx, modelsBlobKey, set, storage.BlobMetadata{Version: version, Entries: len(snapshot)})
	if err != nil {
		s.logger.Error().Err(err).Int("version", version).Msg("failed to persist models")
		return fmt.Errorf("persist models: %w", err)
	}
	s.savedVersion = version
	s.logger.Debug().Int("models", len(snapshot)).Int("version", version).Msg("models saved")
	return nil
}
