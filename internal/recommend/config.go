// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"fmt"
	"time"
)

// Config tunes training, ranking and caching.
type Config struct {
	// MinTrainingSamples gates training and RL enhancement. Must be >= 3.
	MinTrainingSamples int `json:"min_training_samples"`

	// Forest contains the ensemble shape.
	Forest ForestConfig `json:"forest"`

	// TestFraction is the held-out share when the sample count exceeds SplitThreshold.
	TestFraction float64 `json:"test_fraction"`

	// SplitThreshold: at or below this many samples, train and test on the full set.
	SplitThreshold int `json:"split_threshold"`

	// MaxFolds caps the cross-validation fold count.
	MaxFolds int `json:"max_folds"`

	// RecentWindow is how many recent interactions feed the diversity penalty.
	RecentWindow int `json:"recent_window"`

	// ContextTTL bounds context snapshot staleness.
	ContextTTL time.Duration `json:"context_ttl"`

	// ContextCacheSize bounds the number of cached snapshots.
	ContextCacheSize int `json:"context_cache_size"`

	// MaxResults is the default response size.
	MaxResults int `json:"max_results"`

	// LearningRate and ExplorationRate are reported by AIStatus.
	LearningRate    float64 `json:"learning_rate"`
	ExplorationRate float64 `json:"exploration_rate"`

	// UpdateFrequency is the number of ratings gained since the last training
	// that makes feedback submission retrain inline.
	UpdateFrequency int `json:"update_frequency"`
}

// ForestConfig shapes the bagged tree ensemble.
type ForestConfig struct {
	Trees    int    `json:"trees"`
	MaxDepth int    `json:"max_depth"`
	Seed     uint64 `json:"seed"`
	// Workers bounds parallel tree fitting. Zero means one per tree up to GOMAXPROCS.
	Workers int `json:"workers"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() *Config {
	return &Config{
		MinTrainingSamples: 5,
		Forest: ForestConfig{
			Trees:    100,
			MaxDepth: 10,
			Seed:     42,
		},
		TestFraction:     0.2,
		SplitThreshold:   10,
		MaxFolds:         3,
		RecentWindow:     20,
		ContextTTL:       300 * time.Second,
		ContextCacheSize: 1024,
		MaxResults:       10,
		LearningRate:     0.01,
		ExplorationRate:  0.1,
		UpdateFrequency:  10,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MinTrainingSamples < 3 {
		return fmt.Errorf("min_training_samples must be >= 3, got %d", c.MinTrainingSamples)
	}
	if c.Forest.Trees < 1 {
		return fmt.Errorf("forest.trees must be positive, got %d", c.Forest.Trees)
	}
	if c.Forest.MaxDepth < 1 {
		return fmt.Errorf("forest.max_depth must be positive, got %d", c.Forest.MaxDepth)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in (0,1), got %f", c.TestFraction)
	}
	if c.MaxFolds < 2 {
		return fmt.Errorf("max_folds must be >= 2, got %d", c.MaxFolds)
	}
	if c.RecentWindow < 1 {
		return fmt.Errorf("recent_window must be positive, got %d", c.RecentWindow)
	}
	if c.ContextTTL <= 0 {
		return fmt.Errorf("context_ttl must be positive, got %v", c.ContextTTL)
	}
	if c.ContextCacheSize < 1 {
		return fmt.Errorf("context_cache_size must be positive, got %d", c.ContextCacheSize)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	if c.UpdateFrequency < 1 {
		return fmt.Errorf("update_frequency must be positive, got %d", c.UpdateFrequency)
	}
	return nil
}
