// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package main

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/config"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend/storage"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/supervisor/services"
)

// buildEngineConfig maps the personalize section onto the engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	p := cfg.Personalize
	ec := recommend.DefaultConfig()
	ec.MinTrainingSamples = p.MinTrainingSamples
	ec.Forest.Trees = p.Trees
	ec.Forest.MaxDepth = p.MaxDepth
	ec.Forest.Seed = p.Seed
	ec.TestFraction = p.TestFraction
	ec.SplitThreshold = p.SplitThreshold
	ec.MaxFolds = p.MaxFolds
	ec.RecentWindow = p.RecentWindow
	ec.ContextTTL = p.ContextTTL
	ec.ContextCacheSize = p.ContextCacheSize
	ec.MaxResults = p.MaxResults
	ec.LearningRate = p.LearningRate
	ec.ExplorationRate = p.ExplorationRate
	ec.UpdateFrequency = p.UpdateFrequency
	return ec
}

// openPersister opens the configured model backend behind a circuit breaker.
func openPersister(cfg *config.ModelsConfig) (*storage.BreakerStore, error) {
	var (
		backend storage.Persister
		err     error
	)
	switch cfg.Backend {
	case "file":
		backend, err = storage.NewFileStore(cfg.Dir)
	case "badger":
		backend, err = storage.OpenBadgerStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s model store: %w", cfg.Backend, err)
	}

	return storage.NewBreakerStore(backend, storage.BreakerConfig{
		Name:        "model-store-" + cfg.Backend,
		MaxFailures: cfg.BreakerMaxFailures,
		Timeout:     cfg.BreakerTimeout,
	}), nil
}

// newHTTPServer builds the server with the configured timeouts.
func newHTTPServer(cfg *config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// trainingServiceConfig maps the training section onto the sweep service.
func trainingServiceConfig(cfg *config.TrainingConfig) services.TrainingServiceConfig {
	return services.TrainingServiceConfig{
		Interval:      cfg.Interval,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
		Concurrency:   cfg.Concurrency,
	}
}
