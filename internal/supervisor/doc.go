// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

/*
Package supervisor runs the long-lived parts of the server under a
thejerf/suture/v4 supervisor tree.

Tree layout:

	music-recommender (root)
	├── data-layer
	│   ├── training-sweep        (services.TrainingService)
	│   └── database-checkpoint   (services.CheckpointService)
	└── api-layer
	    └── http-server           (services.HTTPServerService)

A service that returns an error is restarted. After FailureThreshold
failures (decaying at FailureDecay per second) its supervisor waits
FailureBackoff before trying again. Supervisor events are logged through
sutureslog into the zerolog-backed slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewTrainingService(engine, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 30*time.Second))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
