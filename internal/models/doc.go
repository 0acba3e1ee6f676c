// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

/*
Package models defines the data structures shared by the personalization core,
the storage layer and the HTTP API.

Key Components:

  - Track: a candidate produced by the upstream search and enrichment stage
  - AudioFeatures: estimated audio descriptors with documented defaults
  - SituationalContext: time, mood and musical context for a request
  - FeedbackRecord: one rating with the track and context snapshot at rating time
  - Interaction: a logged recommendation response
  - PerformanceRecord: one row of per-user model performance history
  - APIResponse: standardized HTTP response wrapper

Tracks are treated as immutable once produced. Derived personalization fields
live on RankedTrack, which embeds the original Track by value.
*/
package models
