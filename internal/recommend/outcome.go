// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"errors"
)

// Sentinel errors.
var (
	// ErrInsufficientSamples means the user has fewer ratings than the training minimum.
	ErrInsufficientSamples = errors.New("insufficient samples")

	// ErrInsufficientValidSamples means too many ratings were malformed to train.
	ErrInsufficientValidSamples = errors.New("insufficient valid samples")

	// ErrNoModel means the user has no trained model.
	ErrNoModel = errors.New("no model for user")

	// ErrTrainingInProgress is returned by TryTrain when a run for the same
	// user already holds the lock.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// Status is the tier of an Outcome.
type Status int

const (
	// StatusOK means the primary path succeeded.
	StatusOK Status = iota
	// StatusDegraded means the primary path failed and Value holds a documented default.
	StatusDegraded
	// StatusFailed means there is no usable value.
	StatusFailed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is a three-tier result: the fallback path is an explicit branch
// on Status rather than a recovered error.
type Outcome[T any] struct {
	Value  T
	Status Status
	// Reason is a short human-readable explanation for non-OK outcomes.
	Reason string
	Err    error
}

// OK wraps a successful value.
func OK[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Status: StatusOK}
}

// Degraded wraps a fallback value.
func Degraded[T any](v T, reason string, err error) Outcome[T] {
	return Outcome[T]{Value: v, Status: StatusDegraded, Reason: reason, Err: err}
}

// Failed reports a failure with no usable value.
func Failed[T any](reason string, err error) Outcome[T] {
	return Outcome[T]{Status: StatusFailed, Reason: reason, Err: err}
}

// IsOK reports whether the primary path succeeded.
func (o Outcome[T]) IsOK() bool { return o.Status == StatusOK }

// Usable reports whether Value may be used (OK or Degraded).
func (o Outcome[T]) Usable() bool { return o.Status != StatusFailed }
