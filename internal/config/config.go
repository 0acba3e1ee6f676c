// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

// Package config loads process configuration with koanf v2.
//
// Loading order (later layers win):
//  1. Defaults: defaultConfig()
//  2. Config File: optional YAML (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment Variables: see envTransformFunc for the supported names
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Models      ModelsConfig      `koanf:"models"`
	Personalize PersonalizeConfig `koanf:"personalize"`
	Training    TrainingConfig    `koanf:"training"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST, HTTP_PORT
//   - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
//   - CORS_ORIGINS: comma-separated list
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig selects the SQL backend holding feedback, interactions and
// model performance history.
//
// Driver "duckdb" is the production default; "sqlite" (pure Go) suits small
// deployments and tests.
type DatabaseConfig struct {
	Driver    string `koanf:"driver" validate:"oneof=duckdb sqlite"`
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"` // duckdb only, e.g. "1GB"
	Threads   int    `koanf:"threads" validate:"min=0"`

	// CheckpointInterval flushes the write-ahead log periodically; 0 disables.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// ModelsConfig controls where trained user models are persisted.
type ModelsConfig struct {
	// Backend is "file" (gzip'd gob blob in Dir) or "badger" (KV store in Dir).
	Backend string `koanf:"backend" validate:"oneof=file badger"`
	Dir     string `koanf:"dir" validate:"required"`

	// Persistence calls go through a circuit breaker that opens after
	// BreakerMaxFailures consecutive failures and half-opens after BreakerTimeout.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"min=1"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// PersonalizeConfig tunes the per-user rating model and hybrid ranking.
//
// Environment Variables:
//   - RL_MIN_SAMPLES: minimum ratings before a model is trained (>= 3)
//   - RL_TREES, RL_MAX_DEPTH, RL_SEED: ensemble shape
//   - RL_LEARNING_RATE, RL_EXPLORATION_RATE: reported in AI status
//   - RL_UPDATE_FREQUENCY: new ratings that trigger a background retrain
//   - CONTEXT_TTL, CONTEXT_CACHE_SIZE: per-user context cache
type PersonalizeConfig struct {
	MinTrainingSamples int     `koanf:"min_training_samples" validate:"min=3"`
	Trees              int     `koanf:"trees" validate:"min=1,max=1000"`
	MaxDepth           int     `koanf:"max_depth" validate:"min=1,max=64"`
	Seed               uint64  `koanf:"seed"`
	TestFraction       float64 `koanf:"test_fraction" validate:"gt=0,lt=1"`
	SplitThreshold     int     `koanf:"split_threshold" validate:"min=1"`
	MaxFolds           int     `koanf:"max_folds" validate:"min=2"`

	RecentWindow     int           `koanf:"recent_window" validate:"min=1,max=500"`
	ContextTTL       time.Duration `koanf:"context_ttl"`
	ContextCacheSize int           `koanf:"context_cache_size" validate:"min=1"`
	MaxResults       int           `koanf:"max_results" validate:"min=1,max=100"`

	LearningRate    float64 `koanf:"learning_rate" validate:"gte=0"`
	ExplorationRate float64 `koanf:"exploration_rate" validate:"gte=0,lte=1"`
	UpdateFrequency int     `koanf:"update_frequency" validate:"min=1"`
}

// TrainingConfig controls the background retraining sweep.
type TrainingConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Interval      time.Duration `koanf:"interval"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int           `koanf:"burst" validate:"min=1"`
	// Concurrency caps how many users are retrained at once in a sweep.
	Concurrency int `koanf:"concurrency" validate:"min=1,max=64"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format is json (production) or console (development).
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}
