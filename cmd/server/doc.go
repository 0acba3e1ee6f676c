// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

// Package main is the entry point for the music personalization server.
//
// The server sits behind an LLM recommendation pipeline. The pipeline sends
// its ranked candidate tracks here; the server re-ranks them with a per-user
// rating model learned from 1..5 feedback and returns the blended list.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Database: DuckDB (default) or SQLite holding feedback, interactions and
//     model performance history
//  4. Model store: file or BadgerDB backend behind a circuit breaker; all
//     persisted user models are loaded once
//  5. Recommendation engine
//  6. HTTP router (chi) with CORS, rate limiting and Prometheus metrics
//  7. Supervisor tree: HTTP server, background training sweep, database
//     checkpoints
//
// # Configuration
//
// Common environment variables:
//   - HTTP_PORT (default 8080)
//   - DB_DRIVER=duckdb|sqlite, DB_PATH
//   - MODEL_BACKEND=file|badger, MODEL_DIR
//   - RL_MIN_SAMPLES (default 5), RL_TREES, RL_MAX_DEPTH, RL_SEED
//   - TRAINING_ENABLED, TRAINING_INTERVAL, TRAINING_CONCURRENCY
//   - LOG_LEVEL, LOG_FORMAT
//
// CONFIG_PATH points at a YAML file with the same keys.
//
// # Signal Handling
//
// On SIGINT or SIGTERM the supervisor stops the HTTP server gracefully, the
// engine saves all user models, and the model store and database are closed.
package main
