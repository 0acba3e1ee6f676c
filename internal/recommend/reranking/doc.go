// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

// Package reranking implements the diversity side of personalized ranking.
//
// A History is built from a user's recent interactions and scores how much a
// candidate track repeats what the user was recently served:
//
//	penalty = 2.0 * (times the artist was recently recommended)
//	        + 0.5 * |track tags ∩ the last 10 recently seen tags|
//
// capped at MaxPenalty. Artist and tag comparisons are case-insensitive.
//
// # Usage
//
//	h := reranking.NewHistory(recent, reranking.DefaultTagPoolSize)
//	for i := range ranked {
//	    ranked[i].DiversityPenalty = h.Penalty(&ranked[i].Track)
//	}
//	reranking.SortByEnhancedScore(ranked)
//
// # Thread Safety
//
// A History is read-only after construction and safe for concurrent use.
package reranking
