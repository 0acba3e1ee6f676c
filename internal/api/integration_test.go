// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/config"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/database"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend/storage"
)

// newEngineServer wires the real engine over an in-memory sqlite database
// and a file model store in a temp dir.
func newEngineServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Driver: database.DriverSQLite, Path: database.MemoryPath}, zerolog.Nop())
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ms, _ := recommend.NewModelStore(context.Background(), files, zerolog.Nop())

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), db, ms, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Close(context.Background()) })

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	return NewRouter(NewHandler(engine, db, 10*time.Second), mw).SetupChi()
}

func TestEngineServer_ColdUserFlow(t *testing.T) {
	srv := newEngineServer(t)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/users/newbie/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}
	var status recommend.AIStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.RLActive || status.TrainingSamples != 0 || status.State != recommend.StateCold {
		t.Errorf("cold status = %+v", status)
	}

	body := `{"candidates":[
		{"id":"deezer:1","name":"One","artist":"A","source":"deezer","popularity":50},
		{"id":"deezer:2","name":"Two","artist":"B","source":"deezer","popularity":70}
	],"llm_reasoning":"picked for focus"}`
	rec, env = doRequest(t, srv, http.MethodPost, "/api/v1/users/newbie/recommendations", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendations: %d %s", rec.Code, rec.Body.String())
	}
	var result recommend.RecommendationResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.RLEnhanced {
		t.Error("cold user should not be RL enhanced")
	}
	if len(result.Tracks) != 2 || result.Tracks[0].ID != "deezer:1" {
		t.Errorf("cold user should keep the LLM order, got %+v", result.Tracks)
	}
}

func TestEngineServer_FeedbackActivatesPersonalization(t *testing.T) {
	srv := newEngineServer(t)

	for i := 1; i <= 6; i++ {
		body := fmt.Sprintf(`{"track_id":"deezer:%d","rating":%d,"track":{"id":"deezer:%d","name":"Song %d","artist":"Artist %d","source":"deezer","popularity":%d,"tags":["rock"]}}`,
			i, 1+i%5, i, i, i%3, 10*i)
		rec, _ := doRequest(t, srv, http.MethodPost, "/api/v1/users/fan/feedback", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("feedback %d: %d %s", i, rec.Code, rec.Body.String())
		}
	}

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/users/fan/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var status recommend.AIStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.RLActive || status.TrainingSamples != 6 {
		t.Errorf("status after 6 ratings = %+v", status)
	}

	rec, _ = doRequest(t, srv, http.MethodPost, "/api/v1/users/fan/feedback", `{"track_id":"deezer:1","rating":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("rating 0: status = %d, want 400", rec.Code)
	}

	rec, _ = doRequest(t, srv, http.MethodGet, "/api/v1/users/fan/performance", "")
	if rec.Code != http.StatusOK {
		t.Errorf("performance: status = %d", rec.Code)
	}
	rec, _ = doRequest(t, srv, http.MethodGet, "/api/v1/users/fan/insights", "")
	if rec.Code != http.StatusOK {
		t.Errorf("insights: status = %d", rec.Code)
	}
}
