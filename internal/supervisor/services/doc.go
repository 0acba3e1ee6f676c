// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

/*
Package services provides suture.Service wrappers for the server's
long-running components.

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
  - TrainingService: periodic retraining of stale user models, rate
    limited with golang.org/x/time/rate and bounded by an errgroup
  - CheckpointService: periodic database checkpoint

Each service depends on a small interface rather than the concrete
component so it can be tested without a database or engine.
*/
package services
