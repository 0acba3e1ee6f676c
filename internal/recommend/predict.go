// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"fmt"
	"math"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/metrics"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// NeutralRating is returned whenever no prediction can be made.
const NeutralRating = 3.0

// Confidence blend: historical accuracy against a sample-size term that
// saturates at confidenceSaturation samples.
const (
	accuracyWeight       = 0.7
	sampleWeight         = 0.3
	confidenceSaturation = 50.0
)

// Predict returns the user's predicted rating for track in [1, 5]. A user
// without a model is trained once on demand; when that fails the neutral
// rating is returned as a Degraded outcome.
func (e *Engine) Predict(ctx context.Context, userID string, track *models.Track, sc *models.SituationalContext) Outcome[float64] {
	if track == nil {
		metrics.RecordPrediction(StatusDegraded.String())
		return Degraded(NeutralRating, "no track", nil)
	}

	m := e.modelFor(ctx, userID)
	if m == nil {
		metrics.RecordPrediction(StatusDegraded.String())
		return Degraded(NeutralRating, "no model", ErrNoModel)
	}
	return predictWith(m, track, sc)
}

// Confidence returns how far the user's predictions can be trusted, in [0, 1].
// It is 0 without a model.
func (e *Engine) Confidence(userID string) float64 {
	return modelConfidence(e.models.Get(userID))
}

func modelConfidence(m *UserModel) float64 {
	if m == nil {
		return 0
	}
	samples := math.Min(1, float64(m.Performance.TrainingSamples)/confidenceSaturation)
	return clamp(accuracyWeight*m.Performance.Accuracy+sampleWeight*samples, 0, 1)
}

// predictWith runs inference. Any failure, including a panic inside the
// model, degrades to NeutralRating for this track only.
func predictWith(m *UserModel, track *models.Track, sc *models.SituationalContext) (out Outcome[float64]) {
	defer func() {
		if r := recover(); r != nil {
			out = Degraded(NeutralRating, "prediction failed", fmt.Errorf("prediction panic: %v", r))
		}
		metrics.RecordPrediction(out.Status.String())
	}()

	x := ExtractFeatures(*track, sc)
	xs, err := m.Scaler.Transform(x)
	if err != nil {
		return Degraded(NeutralRating, "prediction failed", err)
	}
	p, err := m.Forest.Predict(xs)
	if err != nil {
		return Degraded(NeutralRating, "prediction failed", err)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Degraded(NeutralRating, "prediction failed", fmt.Errorf("non-finite prediction %v", p))
	}
	return OK(clamp(p, models.MinRating, models.MaxRating))
}

// modelFor returns the user's model, training it first if absent. It returns
// nil when the user cannot be trained yet.
func (e *Engine) modelFor(ctx context.Context, userID string) *UserModel {
	if m := e.models.Get(userID); m != nil {
		return m
	}

	unlock := e.locks.Lock(userID)
	defer unlock()

	// Another request may have trained while we waited.
	if m := e.models.Get(userID); m != nil {
		return m
	}

	count, err := e.store.GetFeedbackCount(ctx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("feedback count unavailable, skipping lazy training")
		return nil
	}
	if count < e.cfg.MinTrainingSamples {
		return nil
	}

	out := e.trainer.Train(ctx, userID, TriggerLazy)
	if !out.IsOK() {
		return nil
	}
	e.cache.Invalidate(userID, InvalidateRetrain)
	return out.Value
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
