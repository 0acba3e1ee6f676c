// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

// Package recommend implements per-user rating models and the hybrid ranker
// that fuses them with an upstream LLM candidate ranking.
//
// # Architecture
//
// Components, leaves first:
//
//   - Feature extraction: ExtractFeatures turns a track and optional
//     situational context into a fixed 35-dimension vector
//   - ModelStore: the resident map of immutable per-user models, persisted
//     as one blob through a storage.Persister
//   - Trainer: fits a bagged regression-tree ensemble from a user's ratings
//     and evaluates it (MAE, RMSE, k-fold R²)
//   - Prediction: Engine.Predict and Engine.Confidence, with lazy training
//   - Ranking: Enhance applies the rating bonus and diversity penalty, then
//     HybridConfidence summarizes trust in the result
//   - ContextCache: TTL cache of aggregated per-user context snapshots
//
// # Personalization Lifecycle
//
//	Cold      - no model, fewer than MinTrainingSamples ratings
//	Trainable - enough ratings, no model yet
//	Active    - model exists; every retrain replaces it wholesale
//
// # Failure Handling
//
// Public operations never panic across their boundary. Training, prediction
// and model loading return an Outcome whose Status is OK, Degraded (a usable
// default value is attached) or Failed.
//
// # Thread Safety
//
// The Engine is safe for concurrent use. Training, feedback and cache
// rebuilds are serialized per user; different users proceed in parallel.
// Models are swapped by pointer, so a reader sees either the old or the new
// model, never a partial one.
package recommend
