// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package services

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*TrainingService)(nil)
	_ suture.Service = (*CheckpointService)(nil)
)

// mockHTTPServer is a test double for HTTPServer.
type mockHTTPServer struct {
	listenErr     error
	shutdownErr   error
	shutdownCount atomic.Int32
	started       chan struct{}
	stopCh        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newMockHTTPServer(), timeout, zerolog.Nop())
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("timeout %v: got %v, want 10s", timeout, svc.shutdownTimeout)
		}
	}
	if got := NewHTTPServerService(newMockHTTPServer(), time.Second, zerolog.Nop()).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("shuts down gracefully on cancel", func(t *testing.T) {
		server := newMockHTTPServer()
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()

		<-server.started
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve() did not return")
		}
		if server.shutdownCount.Load() != 1 {
			t.Errorf("Shutdown called %d times, want 1", server.shutdownCount.Load())
		}
	})

	t.Run("returns listen error", func(t *testing.T) {
		server := newMockHTTPServer()
		server.listenErr = errors.New("address in use")
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		err := svc.Serve(context.Background())
		if err == nil || !errors.Is(err, server.listenErr) {
			t.Errorf("Serve() = %v, want wrapped listen error", err)
		}
	})

	t.Run("reports shutdown error", func(t *testing.T) {
		server := newMockHTTPServer()
		server.shutdownErr = errors.New("connections did not drain")
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()
		<-server.started
		cancel()

		if err := <-done; !errors.Is(err, server.shutdownErr) {
			t.Errorf("Serve() = %v, want shutdown error", err)
		}
	})
}

var errBusy = errors.New("training already in progress")

// mockRetrainer hands out a fixed stale list and per-user errors.
type mockRetrainer struct {
	mu       sync.Mutex
	stale    []string
	staleErr error
	errs     map[string]error
	retrains []string
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (m *mockRetrainer) StaleModels(context.Context) ([]string, error) {
	return m.stale, m.staleErr
}

func (m *mockRetrainer) RetrainStale(ctx context.Context, userID string) error {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}

	m.mu.Lock()
	m.retrains = append(m.retrains, userID)
	m.mu.Unlock()
	return m.errs[userID]
}

func (m *mockRetrainer) retrained() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.retrains...)
	sort.Strings(out)
	return out
}

func fastConfig() TrainingServiceConfig {
	return TrainingServiceConfig{Interval: time.Hour, RatePerSecond: 1000, Burst: 10, Concurrency: 2}
}

func TestTrainingService_Sweep(t *testing.T) {
	engine := &mockRetrainer{
		stale: []string{"alice", "bob", "carol", "dave"},
		errs: map[string]error{
			"bob":   errBusy,
			"carol": errors.New("insufficient valid samples"),
		},
	}
	svc := NewTrainingService(engine, fastConfig(), errBusy, zerolog.Nop())

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	want := SweepResult{Stale: 4, Trained: 2, Skipped: 1, Failed: 1}
	if result != want {
		t.Errorf("Sweep() = %+v, want %+v", result, want)
	}
	if got := engine.retrained(); len(got) != 4 {
		t.Errorf("retrained = %v, want all four users attempted", got)
	}
}

func TestTrainingService_SweepWithoutBusyError(t *testing.T) {
	engine := &mockRetrainer{stale: []string{"bob"}, errs: map[string]error{"bob": errBusy}}
	svc := NewTrainingService(engine, fastConfig(), nil, zerolog.Nop())

	result, _ := svc.Sweep(context.Background())
	if result.Failed != 1 || result.Skipped != 0 {
		t.Errorf("Sweep() = %+v, want busy counted as failure", result)
	}
}

func TestTrainingService_SweepStaleError(t *testing.T) {
	engine := &mockRetrainer{staleErr: errors.New("db closed")}
	svc := NewTrainingService(engine, fastConfig(), errBusy, zerolog.Nop())

	if _, err := svc.Sweep(context.Background()); err == nil {
		t.Error("Sweep() should return the StaleModels error")
	}
}

func TestTrainingService_ConcurrencyLimit(t *testing.T) {
	engine := &mockRetrainer{
		stale: []string{"u1", "u2", "u3", "u4", "u5", "u6"},
		delay: 20 * time.Millisecond,
	}
	cfg := fastConfig()
	cfg.Concurrency = 2
	svc := NewTrainingService(engine, cfg, errBusy, zerolog.Nop())

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if result.Trained != 6 {
		t.Errorf("trained = %d, want 6", result.Trained)
	}
	if got := engine.maxSeen.Load(); got > 2 {
		t.Errorf("max concurrent retrains = %d, want <= 2", got)
	}
}

func TestTrainingService_Defaults(t *testing.T) {
	svc := NewTrainingService(&mockRetrainer{}, TrainingServiceConfig{}, nil, zerolog.Nop())
	if svc.config.Interval != 10*time.Minute || svc.config.Concurrency != 1 || svc.config.Burst != 1 || svc.config.RatePerSecond != 1 {
		t.Errorf("defaults = %+v", svc.config)
	}
	if svc.String() != "training-sweep" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestTrainingService_ServeSweepsOnStartup(t *testing.T) {
	engine := &mockRetrainer{stale: []string{"alice"}}
	cfg := fastConfig()
	cfg.SweepOnStartup = true
	svc := NewTrainingService(engine, cfg, errBusy, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if got := engine.retrained(); len(got) != 1 || got[0] != "alice" {
		t.Errorf("retrained = %v, want [alice]", got)
	}
}

type mockCheckpointer struct {
	calls atomic.Int32
	err   error
}

func (m *mockCheckpointer) Checkpoint(context.Context) error {
	m.calls.Add(1)
	return m.err
}

func TestCheckpointService_Serve(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"checkpoints succeed", nil},
		{"errors do not stop the loop", errors.New("database is locked")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mockCheckpointer{err: tt.err}
			svc := NewCheckpointService(db, 10*time.Millisecond, zerolog.Nop())

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want deadline exceeded", err)
			}
			if db.calls.Load() < 2 {
				t.Errorf("Checkpoint called %d times, want at least 2", db.calls.Load())
			}
		})
	}
}
