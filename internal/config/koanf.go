// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hybridrec/config.yaml",
	"/etc/hybridrec/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second, // lazy training can run inside a request
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Database: DatabaseConfig{
			Driver:    "duckdb",
			Path:      "data/music_app.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = let the driver decide

			CheckpointInterval: 5 * time.Minute,
		},
		Models: ModelsConfig{
			Backend:            "file",
			Dir:                "data/models",
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Personalize: PersonalizeConfig{
			MinTrainingSamples: 5,
			Trees:              100,
			MaxDepth:           10,
			Seed:               42,
			TestFraction:       0.2,
			SplitThreshold:     10,
			MaxFolds:           3,
			RecentWindow:       20,
			ContextTTL:         300 * time.Second,
			ContextCacheSize:   1024,
			MaxResults:         10,
			LearningRate:       0.01,
			ExplorationRate:    0.1,
			UpdateFrequency:    10,
		},
		Training: TrainingConfig{
			Enabled:       true,
			Interval:      10 * time.Minute,
			RatePerSecond: 2,
			Burst:         1,
			Concurrency:   2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in that order, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Database
	"db_driver":     "database.driver",
	"db_path":       "database.path",
	"db_max_memory": "database.max_memory",
	"db_threads":    "database.threads",

	"db_checkpoint_interval": "database.checkpoint_interval",

	// Model persistence
	"model_backend":              "models.backend",
	"model_dir":                  "models.dir",
	"model_breaker_max_failures": "models.breaker_max_failures",
	"model_breaker_timeout":      "models.breaker_timeout",

	// Personalization
	"rl_min_samples":       "personalize.min_training_samples",
	"rl_trees":             "personalize.trees",
	"rl_max_depth":         "personalize.max_depth",
	"rl_seed":              "personalize.seed",
	"rl_test_fraction":     "personalize.test_fraction",
	"rl_learning_rate":     "personalize.learning_rate",
	"rl_exploration_rate":  "personalize.exploration_rate",
	"rl_update_frequency":  "personalize.update_frequency",
	"rl_recent_window":     "personalize.recent_window",
	"rl_max_results":       "personalize.max_results",
	"context_ttl":          "personalize.context_ttl",
	"context_cache_size":   "personalize.context_cache_size",

	// Background training
	"training_enabled":         "training.enabled",
	"training_interval":        "training.interval",
	"training_rate_per_second": "training.rate_per_second",
	"training_burst":           "training.burst",
	"training_concurrency":     "training.concurrency",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - RL_MIN_SAMPLES -> personalize.min_training_samples
//   - DB_PATH -> database.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
