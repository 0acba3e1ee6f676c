// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend/reranking"
)

// Ranking and fusion constants.
const (
	// bonusScale maps the 1..5 rating scale, centered on neutral, onto the
	// magnitude of search relevance scores.
	bonusScale = 5.0

	// LLMConfidence stands in for the language stage, which exposes no
	// calibrated confidence.
	LLMConfidence = 0.8

	// FallbackHybridScore is reported when personalization failed.
	FallbackHybridScore = 0.5

	wellTrainedSamples  = 20
	partiallyTrainedMin = 5
	partialAccuracyRate = 0.7
	coldRLConfidence    = 0.3
	blendedLLMWeight    = 0.6
	blendedRLWeight     = 0.4
	coldLLMWeight       = 0.9
)

// Enhance scores every candidate with the user's model and the diversity
// penalty, then orders them by enhanced score. The output holds exactly the
// input tracks; only order and the derived fields differ. Without a model
// every prediction is neutral, so only the penalty reorders.
func (e *Engine) Enhance(ctx context.Context, userID string, candidates []models.Track, sc *models.SituationalContext, history *reranking.History) Outcome[[]models.RankedTrack] {
	ranked := make([]models.RankedTrack, len(candidates))
	if len(candidates) == 0 {
		return OK(ranked)
	}

	m := e.modelFor(ctx, userID)
	confidence := modelConfidence(m)

	degraded := 0
	for i := range candidates {
		track := &candidates[i]
		predicted := NeutralRating
		if m != nil {
			out := predictWith(m, track, sc)
			if !out.IsOK() {
				degraded++
			}
			predicted = out.Value
		}

		bonus := (predicted - NeutralRating) * bonusScale
		penalty := history.Penalty(track)

		ranked[i] = models.RankedTrack{
			Track:            *track,
			PredictedRating:  predicted,
			Confidence:       confidence,
			Bonus:            bonus,
			DiversityPenalty: penalty,
			EnhancedScore:    track.RelevanceScore + bonus - penalty,
		}
	}

	reranking.SortByEnhancedScore(ranked)

	if m == nil {
		return Degraded(ranked, "no model, neutral predictions", ErrNoModel)
	}
	if degraded > 0 {
		e.logger.Debug().Str("user_id", userID).Int("degraded", degraded).Msg("some predictions fell back to neutral")
	}
	return OK(ranked)
}

// passthrough attaches neutral derived fields and keeps the input order.
func passthrough(candidates []models.Track) []models.RankedTrack {
	ranked := make([]models.RankedTrack, len(candidates))
	for i := range candidates {
		ranked[i] = models.RankedTrack{
			Track:           candidates[i],
			PredictedRating: NeutralRating,
			EnhancedScore:   candidates[i].RelevanceScore,
		}
	}
	return ranked
}

// HybridConfidence blends the fixed LLM confidence with an RL confidence
// gated by training-sample count. The result is in [0, 1].
func HybridConfidence(samples int, accuracy float64) float64 {
	var rl float64
	switch {
	case samples >= wellTrainedSamples:
		rl = accuracy
	case samples >= partiallyTrainedMin:
		rl = accuracy * partialAccuracyRate
	default:
		rl = coldRLConfidence
	}

	if samples >= partiallyTrainedMin {
		return clamp(blendedLLMWeight*LLMConfidence+blendedRLWeight*rl, 0, 1)
	}
	return clamp(coldLLMWeight*LLMConfidence, 0, 1)
}
