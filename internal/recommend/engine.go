// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/metrics"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend/reranking"
)

// Lifecycle states reported by AIStatus.
const (
	StateCold      = "cold"
	StateTrainable = "trainable"
	StateActive    = "active"
)

// Enhancement modes, used as a metrics label.
const (
	ModePersonalized = "personalized"
	ModePassthrough  = "passthrough"
	ModeFallback     = "fallback"
)

// Engine is the personalization core. It is safe for concurrent use; work
// for different users runs in parallel, training for one user is serialized.
type Engine struct {
	cfg     *Config
	store   Store
	models  *ModelStore
	trainer *Trainer
	locks   *userLocks
	cache   *ContextCache
	logger  zerolog.Logger
	now     func() time.Time
}

// NewEngine wires the engine around an already loaded model store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store Store, ms *ModelStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	if store == nil {
		return nil, errors.New("recommend: nil store")
	}
	if ms == nil {
		return nil, errors.New("recommend: nil model store")
	}

	e := &Engine{
		cfg:     cfg,
		store:   store,
		models:  ms,
		trainer: NewTrainer(cfg, store, ms, logger),
		locks:   newUserLocks(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		now:     time.Now,
	}
	e.cache = NewContextCache(cfg.ContextCacheSize, cfg.ContextTTL, e.buildSnapshot)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// Models returns the resident model store.
func (e *Engine) Models() *ModelStore {
	return e.models
}

// Context returns the user's cached context snapshot, building it if needed.
func (e *Engine) Context(ctx context.Context, userID string) (*ContextSnapshot, error) {
	return e.cache.GetOrBuild(ctx, userID)
}

// buildSnapshot aggregates everything the serving path needs for one user.
func (e *Engine) buildSnapshot(ctx context.Context, userID string) (*ContextSnapshot, error) {
	recent, err := e.store.GetRecentInteractions(ctx, userID, e.cfg.RecentWindow)
	if err != nil {
		return nil, fmt.Errorf("recent interactions: %w", err)
	}
	feedback, err := e.store.GetFeedbackForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	times, err := e.store.GetInteractionTimes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("interaction times: %w", err)
	}

	snap := &ContextSnapshot{
		UserID:        userID,
		Recent:        recent,
		FeedbackCount: len(feedback),
		Preferences:   preferencePatterns(feedback),
		Feedback:      feedbackPatterns(feedback),
		Temporal:      temporalPatterns(times),
		BuiltAt:       e.now(),
		history:       reranking.NewHistory(recent, reranking.DefaultTagPoolSize),
	}
	snap.Insights = buildInsights(
		e.models.Get(userID),
		e.cfg.MinTrainingSamples,
		snap.FeedbackCount,
		snap.Preferences,
		snap.Feedback,
		snap.Temporal,
		summarizeRatings(feedback),
	)
	return snap, nil
}

// GetRecommendations personalizes the LLM candidate list. It never fails:
// an internal error yields the candidates in LLM order with a fallback score.
func (e *Engine) GetRecommendations(ctx context.Context, req *RecommendationRequest) *RecommendationResult {
	start := e.now()
	logger := e.logger.With().Str("user_id", req.UserID).Logger()

	sc := e.stampContext(req.Context)
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = e.cfg.MaxResults
	}

	snap, err := e.cache.GetOrBuild(ctx, req.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("personalization unavailable, serving LLM order")
		return e.fallback(req, maxResults, start, err)
	}

	rlActive := req.UseRL && snap.FeedbackCount >= e.cfg.MinTrainingSamples
	mode := ModePassthrough
	reasoning := req.LLMReasoning

	var ranked []models.RankedTrack
	if rlActive {
		out := e.Enhance(ctx, req.UserID, req.Candidates, sc, snap.History())
		if !out.Usable() {
			logger.Error().Err(out.Err).Str("reason", out.Reason).Msg("enhancement failed, serving LLM order")
			return e.fallback(req, maxResults, start, out.Err)
		}
		ranked = out.Value
		mode = ModePersonalized
	} else {
		ranked = passthrough(req.Candidates)
	}

	// The snapshot predates any lazy training above.
	insights := snap.Insights
	if !insights.ModelExists && e.models.Get(req.UserID) != nil {
		if fresh, err := e.cache.GetOrBuild(ctx, req.UserID); err == nil {
			insights = fresh.Insights
		}
	}

	if rlActive {
		reasoning = hybridReasoning(req.LLMReasoning, req.Candidates, ranked, insights.TrainingSamples)
	}

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	result := &RecommendationResult{
		Tracks:      ranked,
		Reasoning:   reasoning,
		HybridScore: HybridConfidence(insights.TrainingSamples, insights.ModelAccuracy),
		RLEnhanced:  rlActive,
		Mode:        mode,
		Insights:    insights,
	}
	result.ProcessingTimeMS = time.Since(start).Milliseconds()
	e.logInteraction(ctx, req, sc, result)

	metrics.RecordEnhancement(mode)
	return result
}

// stampContext returns sc with At set to now when the caller left it zero.
// An entirely empty context stays absent.
func (e *Engine) stampContext(sc *models.SituationalContext) *models.SituationalContext {
	if sc.IsZero() {
		return nil
	}
	if !sc.At.IsZero() {
		return sc
	}
	stamped := *sc
	stamped.At = e.now()
	return &stamped
}

func (e *Engine) fallback(req *RecommendationRequest, maxResults int, start time.Time, cause error) *RecommendationResult {
	metrics.RecordEnhancement(ModeFallback)

	ranked := passthrough(req.Candidates)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return &RecommendationResult{
		Tracks:           ranked,
		Reasoning:        "Using LLM-only recommendations due to technical issue: " + msg,
		HybridScore:      FallbackHybridScore,
		Mode:             ModeFallback,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	}
}

func (e *Engine) logInteraction(ctx context.Context, req *RecommendationRequest, sc *models.SituationalContext, res *RecommendationResult) {
	tracks := make([]models.Track, len(res.Tracks))
	for i := range res.Tracks {
		tracks[i] = res.Tracks[i].Track
	}
	in := &models.Interaction{
		UserID:           req.UserID,
		Query:            req.Query,
		Recommendations:  tracks,
		RLEnhanced:       res.RLEnhanced,
		HybridScore:      res.HybridScore,
		ProcessingTimeMS: res.ProcessingTimeMS,
	}
	if sc != nil {
		in.Mood = sc.Mood
		in.Musical = sc.Musical
	}
	if err := e.store.LogInteraction(ctx, in); err != nil {
		e.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("failed to log interaction")
		return
	}
	res.InteractionID = in.ID
}

// ProcessFeedback records a rating and retrains inline when the user's model
// is missing or has fallen update_frequency ratings behind. An invalid rating
// returns an error wrapping models.ErrInvalidRating and stores nothing.
func (e *Engine) ProcessFeedback(ctx context.Context, in *FeedbackInput) (*FeedbackResult, error) {
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, fmt.Errorf("%w, got %d", models.ErrInvalidRating, in.Rating)
	}
	logger := e.logger.With().Str("user_id", in.UserID).Str("track_id", in.TrackID).Logger()

	track := in.Track
	if track == nil {
		track = e.lookupRecentTrack(ctx, in.UserID, in.TrackID)
	}
	sc := e.stampContext(in.Context)

	rec, err := models.NewFeedbackRecord(in.UserID, in.TrackID, track, sc, in.Rating, in.Text)
	if err != nil {
		return nil, err
	}
	rec.InteractionID = in.InteractionID

	if m := e.models.Get(in.UserID); m != nil && track != nil {
		predicted := predictWith(m, track, sc).Value
		confidence := modelConfidence(m)
		rec.PredictedRating = &predicted
		rec.RLConfidence = &confidence
	}

	if err := e.store.AppendFeedback(ctx, rec); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}
	e.cache.Invalidate(in.UserID, InvalidateFeedback)

	result := &FeedbackResult{Success: true, FeedbackID: rec.ID}

	count, err := e.store.GetFeedbackCount(ctx, in.UserID)
	if err != nil {
		logger.Warn().Err(err).Msg("feedback stored but count unavailable")
		result.Message = "Thank you! Your feedback helps improve recommendations."
		return result, nil
	}

	if count < e.cfg.MinTrainingSamples {
		result.Message = fmt.Sprintf("Thank you! Rate %d more tracks to unlock AI personalization.", e.cfg.MinTrainingSamples-count)
		return result, nil
	}

	result.Message = "Thank you! Your feedback helps improve recommendations."
	if m := e.models.Get(in.UserID); m == nil || count-m.FeedbackCount >= e.cfg.UpdateFrequency {
		out, err := e.tryTrain(ctx, in.UserID, TriggerFeedback)
		switch {
		case errors.Is(err, ErrTrainingInProgress):
			logger.Debug().Msg("training already running, skipping inline retrain")
		case out.IsOK():
			result.ModelUpdated = true
			result.NewAccuracy = out.Value.Performance.Accuracy
		}
	}
	return result, nil
}

// lookupRecentTrack finds a track the user was recently served.
func (e *Engine) lookupRecentTrack(ctx context.Context, userID, trackID string) *models.Track {
	recent, err := e.store.GetRecentInteractions(ctx, userID, e.cfg.RecentWindow)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("recent interactions unavailable for track lookup")
		return nil
	}
	for i := range recent {
		for j := range recent[i].Recommendations {
			if recent[i].Recommendations[j].ID == trackID {
				t := recent[i].Recommendations[j]
				return &t
			}
		}
	}
	return nil
}

// tryTrain trains unless a run for the user is already in progress.
func (e *Engine) tryTrain(ctx context.Context, userID, trigger string) (Outcome[*UserModel], error) {
	unlock, ok := e.locks.TryLock(userID)
	if !ok {
		return Failed[*UserModel]("training already in progress", ErrTrainingInProgress), ErrTrainingInProgress
	}
	defer unlock()

	out := e.trainer.Train(ctx, userID, trigger)
	if out.IsOK() {
		e.cache.Invalidate(userID, InvalidateRetrain)
	}
	return out, nil
}

// AIStatus reports the user's personalization state.
func (e *Engine) AIStatus(ctx context.Context, userID string) (*AIStatus, error) {
	count, err := e.store.GetFeedbackCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("feedback count: %w", err)
	}

	status := &AIStatus{
		LLMActive:       true,
		RLActive:        count >= e.cfg.MinTrainingSamples,
		TrainingSamples: count,
		RLExploration:   e.cfg.ExplorationRate,
		RLLearningRate:  e.cfg.LearningRate,
		State:           StateCold,
	}

	switch m := e.models.Get(userID); {
	case m != nil:
		status.Accuracy = m.Performance.Accuracy
		status.State = StateActive
	case status.RLActive:
		status.State = StateTrainable
	}
	return status, nil
}

// Retrain trains the user's model now. It does not wait for a run that is
// already in progress.
func (e *Engine) Retrain(ctx context.Context, userID string) (*RetrainResult, error) {
	count, err := e.store.GetFeedbackCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("feedback count: %w", err)
	}
	if count < e.cfg.MinTrainingSamples {
		return &RetrainResult{
			Message: fmt.Sprintf("Need at least %d ratings to train model", e.cfg.MinTrainingSamples),
		}, nil
	}

	out, err := e.tryTrain(ctx, userID, TriggerExplicit)
	if errors.Is(err, ErrTrainingInProgress) {
		return &RetrainResult{Message: "Training already in progress"}, nil
	}
	if !out.IsOK() {
		return &RetrainResult{Message: "Training failed"}, nil
	}
	return &RetrainResult{
		Success:  true,
		Accuracy: out.Value.Performance.Accuracy,
		Message:  "Model retrained successfully!",
	}, nil
}

// Insights returns the user's detailed learning insights.
func (e *Engine) Insights(ctx context.Context, userID string) (*Insights, error) {
	snap, err := e.cache.GetOrBuild(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Insights, nil
}

// PerformanceHistory returns the user's accuracy history and the ten most
// important features of the current model. Both are empty without a model.
func (e *Engine) PerformanceHistory(ctx context.Context, userID string) (*PerformanceHistory, error) {
	m := e.models.Get(userID)
	if m == nil {
		return &PerformanceHistory{
			AccuracyHistory:   []models.PerformanceRecord{},
			FeatureImportance: []FeatureWeight{},
		}, nil
	}

	history, err := e.store.GetModelPerformanceHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("performance history: %w", err)
	}
	if history == nil {
		history = []models.PerformanceRecord{}
	}
	return &PerformanceHistory{
		AccuracyHistory:   history,
		FeatureImportance: topFeatures(m.FeatureImportance, topHistoryFeatures),
	}, nil
}

// StaleModels returns the users whose model was trained on fewer ratings
// than they have now.
func (e *Engine) StaleModels(ctx context.Context) ([]string, error) {
	var stale []string
	for _, userID := range e.models.UserIDs() {
		if err := ctx.Err(); err != nil {
			return stale, err
		}
		m := e.models.Get(userID)
		if m == nil {
			continue
		}
		count, err := e.store.GetFeedbackCount(ctx, userID)
		if err != nil {
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("feedback count unavailable, skipping")
			continue
		}
		if count > m.FeedbackCount {
			stale = append(stale, userID)
		}
	}
	return stale, nil
}

// RetrainStale retrains one user from the background sweep.
func (e *Engine) RetrainStale(ctx context.Context, userID string) error {
	out, err := e.tryTrain(ctx, userID, TriggerSweep)
	if err != nil {
		return err
	}
	if !out.IsOK() {
		return fmt.Errorf("retrain %s: %s: %w", userID, out.Reason, out.Err)
	}
	return nil
}

// Close flushes the model collection.
func (e *Engine) Close(ctx context.Context) error {
	return e.models.SaveAll(ctx)
}
