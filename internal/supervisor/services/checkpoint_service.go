// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Checkpointer flushes a database write-ahead log. *database.DB implements it.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService checkpoints the database on a fixed interval so the
// write-ahead log does not grow without bound between restarts.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCheckpointService creates the service. interval must be positive.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(db Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	return &CheckpointService{
		db:       db,
		interval: interval,
		logger:   logger.With().Str("service", "database-checkpoint").Logger(),
		name:     "database-checkpoint",
	}
}

// Serve implements suture.Service. Checkpoint errors are logged and retried
// on the next tick rather than restarting the service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cctx, cancel := context.WithTimeout(ctx, time.Minute)
			start := time.Now()
			err := s.db.Checkpoint(cctx)
			cancel()
			if err != nil {
				s.logger.Warn().Err(err).Msg("database checkpoint failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("database checkpoint complete")
		}
	}
}

// String returns the service name for logging.
func (s *CheckpointService) String() string {
	return s.name
}
