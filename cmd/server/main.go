// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/api"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/config"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/database"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/logging"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/metrics"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/supervisor"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

//nolint:gocyclo // Sequential setup steps
func run() int {
	cfg, err := config.Load()
	if err != nil {
		// Config not yet available, so this goes through the default logger.
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	metrics.SetAppInfo(version)

	logger.Info().
		Str("version", version).
		Str("db_driver", cfg.Database.Driver).
		Str("db_path", cfg.Database.Path).
		Str("model_backend", cfg.Models.Backend).
		Str("model_dir", cfg.Models.Dir).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database, logging.WithComponent("database"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize database")
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()

	persister, err := openPersister(&cfg.Models)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open model store")
		return 1
	}
	defer func() {
		if err := persister.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing model store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engineLogger := logging.WithComponent("recommend")
	models, loaded := recommend.NewModelStore(ctx, persister, engineLogger)
	if !loaded.IsOK() {
		// A missing or unreadable collection starts empty; models retrain lazily.
		logger.Warn().Str("reason", loaded.Reason).Err(loaded.Err).Msg("Starting with an empty model collection")
	} else {
		logger.Info().Int("models", loaded.Value).Msg("User models loaded")
	}

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), db, models, engineLogger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create recommendation engine")
		return 1
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer closeCancel()
		if err := engine.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("Error saving user models")
		}
	}()

	handler := api.NewHandler(engine, db, cfg.Server.WriteTimeout)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromServer(&cfg.Server))
	server := newHTTPServer(&cfg.Server, router.SetupChi())

	if cfg.Server.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create supervisor tree")
		return 1
	}

	if cfg.Training.Enabled {
		tree.AddDataService(services.NewTrainingService(
			engine,
			trainingServiceConfig(&cfg.Training),
			recommend.ErrTrainingInProgress,
			logging.WithComponent("training"),
		))
	} else {
		logger.Info().Msg("Background training disabled (TRAINING_ENABLED=false)")
	}
	if cfg.Database.CheckpointInterval > 0 {
		tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval, logging.WithComponent("database")))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := tree.ServeBackground(ctx)
	logger.Info().Str("addr", server.Addr).Msg("Server started")

	exitCode := 0
	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		err = <-errCh
	case err = <-errCh:
		// The tree only stops on its own when the root gives up.
		exitCode = 1
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree stopped with error")
		exitCode = 1
	}
	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logger.Info().Msg("Server stopped")
	return exitCode
}
