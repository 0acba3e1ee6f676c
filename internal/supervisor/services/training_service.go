// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// StaleModelRetrainer is the engine surface the sweep needs.
// *recommend.Engine implements it.
type StaleModelRetrainer interface {
	// StaleModels lists users whose model lags behind their ratings.
	StaleModels(ctx context.Context) ([]string, error)
	// RetrainStale retrains one user. It returns recommend.ErrTrainingInProgress
	// when a request-path retrain already holds the user's lock.
	RetrainStale(ctx context.Context, userID string) error
}

// TrainingServiceConfig holds configuration for the training sweep.
type TrainingServiceConfig struct {
	// Interval between sweeps. Default: 10m
	Interval time.Duration

	// RatePerSecond and Burst bound how often retrains start.
	RatePerSecond float64
	Burst         int

	// Concurrency is the number of users retrained at once. Default: 1
	Concurrency int

	// SweepOnStartup runs one sweep before the first tick.
	SweepOnStartup bool
}

// SweepResult counts the outcome of one sweep.
type SweepResult struct {
	Stale   int
	Trained int
	Skipped int
	Failed  int
}

// TrainingService periodically retrains models that have fallen behind
// their users' ratings.
type TrainingService struct {
	engine  StaleModelRetrainer
	config  TrainingServiceConfig
	limiter *rate.Limiter
	logger  zerolog.Logger
	name    string

	// isBusy reports whether err means another run holds the user's lock.
	isBusy func(error) bool
}

// NewTrainingService creates the sweep service. busy identifies the
// engine's "training already in progress" error; nil treats every error
// as a failure.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(engine StaleModelRetrainer, cfg TrainingServiceConfig, busy error, logger zerolog.Logger) *TrainingService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	isBusy := func(error) bool { return false }
	if busy != nil {
		isBusy = func(err error) bool { return errors.Is(err, busy) }
	}

	return &TrainingService{
		engine:  engine,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:  logger.With().Str("service", "training-sweep").Logger(),
		name:    "training-sweep",
		isBusy:  isBusy,
	}
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Float64("rate_per_second", s.config.RatePerSecond).
		Int("concurrency", s.config.Concurrency).
		Msg("training sweep starting")

	if s.config.SweepOnStartup {
		s.sweep(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training sweep shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Sweep runs one pass and reports what it did. A failing user does not
// stop the pass.
func (s *TrainingService) Sweep(ctx context.Context) (SweepResult, error) {
	stale, err := s.engine.StaleModels(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Stale: len(stale)}
	if len(stale) == 0 {
		return result, nil
	}

	outcomes := make([]int, len(stale))
	const (
		trained = iota + 1
		skipped
		failed
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i, userID := range stale {
		if err := s.limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			err := s.engine.RetrainStale(gctx, userID)
			switch {
			case err == nil:
				outcomes[i] = trained
			case s.isBusy(err):
				outcomes[i] = skipped
			default:
				outcomes[i] = failed
				s.logger.Warn().Err(err).Str("user_id", userID).Msg("background retrain failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		switch o {
		case trained:
			result.Trained++
		case skipped:
			result.Skipped++
		case failed:
			result.Failed++
		}
	}
	return result, ctx.Err()
}

func (s *TrainingService) sweep(ctx context.Context) {
	start := time.Now()
	result, err := s.Sweep(ctx)
	if err != nil && ctx.Err() == nil {
		s.logger.Warn().Err(err).Msg("training sweep failed")
		return
	}
	if result.Stale == 0 {
		s.logger.Debug().Msg("no stale models")
		return
	}
	s.logger.Info().
		Int("stale", result.Stale).
		Int("trained", result.Trained).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("duration", time.Since(start)).
		Msg("training sweep complete")
}

// String returns the service name for logging.
func (s *TrainingService) String() string {
	return s.name
}
