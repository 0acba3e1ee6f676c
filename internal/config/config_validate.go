// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package config

import (
	"fmt"
	"time"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/validation"
)

// Validate checks field constraints (struct tags) and then cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validatePersonalize(); err != nil {
		return err
	}

	if err := c.validateModels(); err != nil {
		return err
	}

	return c.validateTraining()
}

func (c *Config) validateServer() error {
	if !c.Server.RateLimitDisabled && c.Server.RateLimitReqs == 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive unless DISABLE_RATE_LIMIT=true")
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Server.RateLimitWindow)
	}
	return nil
}

func (c *Config) validatePersonalize() error {
	p := c.Personalize
	if p.MinTrainingSamples < 3 {
		return fmt.Errorf("RL_MIN_SAMPLES must be at least 3, got %d", p.MinTrainingSamples)
	}
	if p.ContextTTL <= 0 {
		return fmt.Errorf("CONTEXT_TTL must be positive, got %v", p.ContextTTL)
	}
	if p.SplitThreshold < p.MinTrainingSamples {
		return fmt.Errorf("personalize.split_threshold (%d) must be >= min_training_samples (%d)",
			p.SplitThreshold, p.MinTrainingSamples)
	}
	return nil
}

func (c *Config) validateModels() error {
	if c.Models.BreakerTimeout <= 0 {
		return fmt.Errorf("MODEL_BREAKER_TIMEOUT must be positive, got %v", c.Models.BreakerTimeout)
	}
	return nil
}

func (c *Config) validateTraining() error {
	if c.Training.Enabled && c.Training.Interval < time.Second {
		return fmt.Errorf("TRAINING_INTERVAL must be at least 1s when training is enabled, got %v", c.Training.Interval)
	}
	return nil
}
