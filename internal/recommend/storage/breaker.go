// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/logging"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/metrics"
)

// BreakerConfig configures the persistence circuit breaker.
type BreakerConfig struct {
	Name string
	// MaxFailures is the consecutive failure count that opens the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before half-opening.
	Timeout time.Duration
}

// BreakerStore wraps a Persister with a circuit breaker. When the backend keeps
// failing, calls are rejected immediately with gobreaker.ErrOpenState instead
// of piling up on a broken disk.
//
// ErrNotFound is a normal answer, not a failure, and never trips the breaker.
type BreakerStore struct {
	next Persister
	cb   *gobreaker.CircuitBreaker[*BlobMetadata]
	name string
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Persister, cfg BreakerConfig) *BreakerStore {
	if cfg.Name == "" {
		cfg.Name = "model-store"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	maxFailures := cfg.MaxFailures
	cb := gobreaker.NewCircuitBreaker[*BlobMetadata](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= maxFailures
			if trip {
				logging.Warn().Uint32("failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening model store circuit")
			}
			return trip
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerStore{next: next, cb: cb, name: cfg.Name}
}

// Backend reports the wrapped backend name.
func (s *BreakerStore) Backend() string { return s.next.Backend() }

// State returns the current breaker state.
func (s *BreakerStore) State() gobreaker.State { return s.cb.State() }

// Save forwards to the wrapped backend through the breaker.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BreakerStore) Save(ctx context.Context, key string, data any, meta BlobMetadata) error {
	_, err := s.execute(func() (*BlobMetadata, error) {
		return nil, s.next.Save(ctx, key, data, meta)
	})
	metrics.RecordModelStoreOp(s.Backend(), "save", err)
	return err
}

// Load forwards to the wrapped backend through the breaker.
func (s *BreakerStore) Load(ctx context.Context, key string, target any) (*BlobMetadata, error) {
	meta, err := s.execute(func() (*BlobMetadata, error) {
		return s.next.Load(ctx, key, target)
	})
	if errors.Is(err, ErrNotFound) {
		metrics.RecordModelStoreOp(s.Backend(), "load", nil)
	} else {
		metrics.RecordModelStoreOp(s.Backend(), "load", err)
	}
	return meta, err
}

// Close closes the wrapped backend.
func (s *BreakerStore) Close() error {
	return s.next.Close()
}

func (s *BreakerStore) execute(fn func() (*BlobMetadata, error)) (*BlobMetadata, error) {
	meta, err := s.cb.Execute(fn)
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)
		return meta, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
		return nil, fmt.Errorf("model store %s unavailable: %w", s.name, err)
	}

	if !errors.Is(err, ErrNotFound) {
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(s.cb.Counts().ConsecutiveFailures))
	}
	return meta, err
}

var _ Persister = (*BreakerStore)(nil)
