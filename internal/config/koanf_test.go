// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolateConfigFile points CONFIG_PATH at an empty temp dir location and
// moves into a temp working directory so no stray config.yaml is picked up.
func isolateConfigFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Personalize.MinTrainingSamples != 5 {
		t.Errorf("MinTrainingSamples = %d, want 5", cfg.Personalize.MinTrainingSamples)
	}
	if cfg.Personalize.Trees != 100 || cfg.Personalize.MaxDepth != 10 || cfg.Personalize.Seed != 42 {
		t.Errorf("ensemble defaults = %d/%d/%d, want 100/10/42",
			cfg.Personalize.Trees, cfg.Personalize.MaxDepth, cfg.Personalize.Seed)
	}
	if cfg.Personalize.ContextTTL != 300*time.Second {
		t.Errorf("ContextTTL = %v, want 300s", cfg.Personalize.ContextTTL)
	}
	if cfg.Personalize.RecentWindow != 20 {
		t.Errorf("RecentWindow = %d, want 20", cfg.Personalize.RecentWindow)
	}
	if cfg.Database.Driver != "duckdb" {
		t.Errorf("Database.Driver = %q, want duckdb", cfg.Database.Driver)
	}
	if cfg.Models.Backend != "file" {
		t.Errorf("Models.Backend = %q, want file", cfg.Models.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigFile(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Personalize.ContextTTL != 300*time.Second {
		t.Errorf("ContextTTL = %v, want 300s", cfg.Personalize.ContextTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateConfigFile(t)
	t.Setenv("RL_MIN_SAMPLES", "7")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/feedback.db")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CONTEXT_TTL", "90s")
	t.Setenv("MODEL_BACKEND", "badger")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Personalize.MinTrainingSamples != 7 {
		t.Errorf("MinTrainingSamples = %d, want 7", cfg.Personalize.MinTrainingSamples)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "/tmp/feedback.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Personalize.ContextTTL != 90*time.Second {
		t.Errorf("ContextTTL = %v, want 90s", cfg.Personalize.ContextTTL)
	}
	if cfg.Models.Backend != "badger" {
		t.Errorf("Models.Backend = %q, want badger", cfg.Models.Backend)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolateConfigFile(t)
	path := filepath.Join(dir, "custom.yaml")
	content := []byte("personalize:\n  trees: 25\n  max_depth: 6\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Personalize.Trees != 25 || cfg.Personalize.MaxDepth != 6 {
		t.Errorf("trees/depth = %d/%d, want 25/6", cfg.Personalize.Trees, cfg.Personalize.MaxDepth)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// untouched keys keep defaults
	if cfg.Personalize.MinTrainingSamples != 5 {
		t.Errorf("MinTrainingSamples = %d, want 5", cfg.Personalize.MinTrainingSamples)
	}
}

func TestLoad_RejectsLowMinSamples(t *testing.T) {
	isolateConfigFile(t)
	t.Setenv("RL_MIN_SAMPLES", "2")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject RL_MIN_SAMPLES < 3")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"RL_MIN_SAMPLES": "personalize.min_training_samples",
		"HTTP_PORT":      "server.port",
		"LOG_LEVEL":      "logging.level",
		"PATH":           "",
		"HOME":           "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
