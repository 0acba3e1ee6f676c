// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend"
)

// stubEngine records the last request it received and returns canned values.
type stubEngine struct {
	mu sync.Mutex

	lastRec      *recommend.RecommendationRequest
	lastFeedback *recommend.FeedbackInput

	feedbackErr error
	statusErr   error
	enhanceErr  error
}

func (s *stubEngine) GetRecommendations(_ context.Context, req *recommend.RecommendationRequest) *recommend.RecommendationResult {
	s.mu.Lock()
	s.lastRec = req
	s.mu.Unlock()

	tracks := make([]models.RankedTrack, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		tracks = append(tracks, models.RankedTrack{Track: c, EnhancedScore: 1})
	}
	return &recommend.RecommendationResult{Tracks: tracks, Mode: "llm_only", Reasoning: req.LLMReasoning}
}

func (s *stubEngine) ProcessFeedback(_ context.Context, in *recommend.FeedbackInput) (*recommend.FeedbackResult, error) {
	s.mu.Lock()
	s.lastFeedback = in
	s.mu.Unlock()
	if s.feedbackErr != nil {
		return nil, s.feedbackErr
	}
	return &recommend.FeedbackResult{Success: true, FeedbackID: "fb-1", Message: "ok"}, nil
}

func (s *stubEngine) AIStatus(_ context.Context, _ string) (*recommend.AIStatus, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &recommend.AIStatus{LLMActive: true, State: recommend.StateCold}, nil
}

func (s *stubEngine) Retrain(_ context.Context, _ string) (*recommend.RetrainResult, error) {
	return &recommend.RetrainResult{Message: "Need at least 5 ratings to train model"}, nil
}

func (s *stubEngine) Insights(_ context.Context, _ string) (*recommend.Insights, error) {
	return &recommend.Insights{Message: "Rate more tracks"}, nil
}

func (s *stubEngine) PerformanceHistory(_ context.Context, _ string) (*recommend.PerformanceHistory, error) {
	return &recommend.PerformanceHistory{
		AccuracyHistory:   []models.PerformanceRecord{},
		FeatureImportance: []recommend.FeatureWeight{},
	}, nil
}

func (s *stubEngine) EnhanceQuery(_ context.Context, _, query string) (string, error) {
	if s.enhanceErr != nil {
		return "", s.enhanceErr
	}
	return query + ". User typically enjoys: rock", nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// envelope mirrors models.APIResponse with a raw data field.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestServer(t *testing.T, engine Recommender, db Pinger, mw *ChiMiddlewareConfig) http.Handler {
	t.Helper()
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	return NewRouter(NewHandler(engine, db, 5*time.Second), mw).SetupChi()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestGetRecommendations_DefaultsUseRL(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{}
	srv := newTestServer(t, engine, nil, nil)

	body := `{"query":"chill evening","candidates":[{"id":"deezer:1","name":"A","artist":"X","source":"deezer"}],"llm_reasoning":"calm picks","max_results":5}`
	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/users/alice/recommendations", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.Status != "success" || env.Metadata.RequestID == "" {
		t.Errorf("envelope = %+v", env)
	}
	if engine.lastRec.UserID != "alice" || !engine.lastRec.UseRL || engine.lastRec.MaxResults != 5 {
		t.Errorf("engine request = %+v", engine.lastRec)
	}

	var result recommend.RecommendationResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(result.Tracks) != 1 || result.Tracks[0].ID != "deezer:1" {
		t.Errorf("tracks = %+v", result.Tracks)
	}
}

func TestGetRecommendations_ExplicitUseRLFalse(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{}
	srv := newTestServer(t, engine, nil, nil)

	rec, _ := doRequest(t, srv, http.MethodPost, "/api/v1/users/alice/recommendations", `{"candidates":[],"use_rl":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if engine.lastRec.UseRL {
		t.Error("use_rl=false was not passed through")
	}
}

func TestGetRecommendations_RejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"empty body", "", ErrCodeInvalidJSON},
		{"malformed json", `{"candidates":`, ErrCodeInvalidJSON},
		{"candidate without id", `{"candidates":[{"name":"A"}]}`, ErrCodeValidation},
		{"unknown source", `{"candidates":[{"id":"x:1","source":"napster"}]}`, ErrCodeValidation},
		{"max_results too large", `{"max_results":1000}`, ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := &stubEngine{}
			srv := newTestServer(t, engine, nil, nil)

			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/users/alice/recommendations", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if engine.lastRec != nil {
				t.Error("engine was called for an invalid request")
			}
		})
	}
}

func TestProcessFeedback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		feedbackErr error
		wantStatus  int
		wantCode    string
	}{
		{
			name:       "valid rating",
			body:       `{"track_id":"deezer:1","rating":4,"feedback_text":"great"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "rating out of range",
			body:       `{"track_id":"deezer:1","rating":6}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
		{
			name:       "missing track id",
			body:       `{"rating":3}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
		{
			name:        "engine rejects rating",
			body:        `{"track_id":"deezer:1","rating":3}`,
			feedbackErr: fmt.Errorf("%w, got 0", models.ErrInvalidRating),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodeValidation,
		},
		{
			name:        "storage failure",
			body:        `{"track_id":"deezer:1","rating":3}`,
			feedbackErr: errors.New("disk full"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrCodeDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := &stubEngine{feedbackErr: tt.feedbackErr}
			srv := newTestServer(t, engine, nil, nil)

			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/users/bob/feedback", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				if strings.Contains(rec.Body.String(), "disk full") {
					t.Error("internal error detail leaked to client")
				}
				return
			}
			if engine.lastFeedback.UserID != "bob" || engine.lastFeedback.Text != "great" || engine.lastFeedback.Rating != 4 {
				t.Errorf("feedback input = %+v", engine.lastFeedback)
			}
		})
	}
}

func TestReadEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &stubEngine{}, nil, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/carol/status"},
		{http.MethodPost, "/api/v1/users/carol/retrain"},
		{http.MethodGet, "/api/v1/users/carol/insights"},
		{http.MethodGet, "/api/v1/users/carol/performance"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()
			rec, env := doRequest(t, srv, tt.method, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if env.Status != "success" || len(env.Data) == 0 {
				t.Errorf("envelope = %+v", env)
			}
		})
	}
}

func TestAIStatus_StoreFailure(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &stubEngine{statusErr: errors.New("db locked")}, nil, nil)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/users/carol/status", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeDatabaseError {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestQueryContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		enhanceErr   error
		wantEnhanced bool
	}{
		{"patterns appended", nil, true},
		{"history unavailable falls back", errors.New("store down"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, &stubEngine{enhanceErr: tt.enhanceErr}, nil, nil)

			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/users/dave/query-context", `{"query":"upbeat songs"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var resp QueryContextResponse
			if err := json.Unmarshal(env.Data, &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Enhanced != tt.wantEnhanced {
				t.Errorf("enhanced = %v, want %v (%+v)", resp.Enhanced, tt.wantEnhanced, resp)
			}
			if !tt.wantEnhanced && resp.EnhancedQuery != "upbeat songs" {
				t.Errorf("fallback query = %q", resp.EnhancedQuery)
			}
		})
	}
}

func TestQueryContext_RequiresQuery(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &stubEngine{}, nil, nil)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/users/dave/query-context", `{"query":""}`)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestUserIDValidation(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &stubEngine{}, nil, nil)

	long := strings.Repeat("u", 129)
	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/users/"+long+"/status", "")
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		engine     Recommender
		db         Pinger
		path       string
		wantStatus int
	}{
		{"live", &stubEngine{}, nil, "/api/v1/health/live", http.StatusOK},
		{"live ignores db", &stubEngine{}, stubPinger{err: errors.New("down")}, "/api/v1/health/live", http.StatusOK},
		{"ready", &stubEngine{}, stubPinger{}, "/api/v1/health/ready", http.StatusOK},
		{"ready db down", &stubEngine{}, stubPinger{err: errors.New("down")}, "/api/v1/health/ready", http.StatusServiceUnavailable},
		{"ready no engine", nil, stubPinger{}, "/api/v1/health/ready", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, tt.engine, tt.db, nil)
			rec, _ := doRequest(t, srv, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
