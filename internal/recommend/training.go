// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/metrics"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// Training triggers, used as a metrics label.
const (
	TriggerLazy     = "lazy"
	TriggerExplicit = "explicit"
	TriggerFeedback = "feedback"
	TriggerSweep    = "sweep"
)

// splitStream is the PCG stream id for the train/test shuffle, distinct from
// the per-tree streams 0..Trees-1.
const splitStream = math.MaxUint64

// Trainer fits, evaluates and commits user models. Callers serialize runs
// per user; the Trainer itself holds no per-user state.
type Trainer struct {
	cfg    *Config
	store  Store
	models *ModelStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewTrainer creates a trainer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainer(cfg *Config, store Store, ms *ModelStore, logger zerolog.Logger) *Trainer {
	return &Trainer{
		cfg:    cfg,
		store:  store,
		models: ms,
		logger: logger.With().Str("component", "trainer").Logger(),
		now:    time.Now,
	}
}

// dataset is the extracted training matrix.
type dataset struct {
	X       [][]float64
	y       []float64
	skipped int
	total   int
}

// Train runs the full pipeline for one user: load ratings, extract features,
// split, scale, fit, evaluate, then swap in and persist the new model. On any
// failure the previous model, if any, stays in place.
func (t *Trainer) Train(ctx context.Context, userID, trigger string) (out Outcome[*UserModel]) {
	start := t.now()
	logger := t.logger.With().Str("user_id", userID).Str("trigger", trigger).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("training panicked")
			out = Failed[*UserModel]("training failed", fmt.Errorf("training panic: %v", r))
		}
		outcome := "ok"
		switch {
		case errors.Is(out.Err, ErrInsufficientSamples), errors.Is(out.Err, ErrInsufficientValidSamples):
			outcome = "insufficient"
		case !out.IsOK():
			outcome = "failed"
		}
		var acc float64
		if out.Value != nil {
			acc = out.Value.Performance.Accuracy
		}
		metrics.RecordTraining(trigger, outcome, time.Since(start), acc)
	}()

	ds, res := t.loadDataset(ctx, userID)
	if !res.IsOK() {
		logger.Info().Str("reason", res.Reason).Msg("training skipped")
		return Failed[*UserModel](res.Reason, res.Err)
	}

	model, err := t.fit(ctx, userID, ds)
	if err != nil {
		logger.Error().Err(err).Msg("model fit failed")
		return Failed[*UserModel]("training failed", err)
	}

	if err := t.commit(ctx, model); err != nil {
		// The new model is live in memory; only durability failed.
		logger.Warn().Err(err).Msg("model trained but not persisted")
	}

	logger.Info().
		Int("samples", ds.total).
		Int("skipped", ds.skipped).
		Float64("mae", model.Performance.MAE).
		Float64("accuracy", model.Performance.Accuracy).
		Dur("duration", time.Since(start)).
		Msg("trained user model")

	return OK(model)
}

// loadDataset fetches ratings and extracts (X, y), skipping malformed records.
func (t *Trainer) loadDataset(ctx context.Context, userID string) (*dataset, Outcome[struct{}]) {
	records, err := t.store.GetFeedbackForUser(ctx, userID)
	if err != nil {
		return nil, Failed[struct{}]("failed to load feedback", fmt.Errorf("load feedback: %w", err))
	}

	if len(records) < t.cfg.MinTrainingSamples {
		return nil, Failed[struct{}](
			fmt.Sprintf("Need at least %d ratings", t.cfg.MinTrainingSamples), ErrInsufficientSamples)
	}

	ds := &dataset{
		X:     make([][]float64, 0, len(records)),
		y:     make([]float64, 0, len(records)),
		total: len(records),
	}
	for i := range records {
		track, sc, err := records[i].Snapshot()
		if err != nil {
			t.logger.Warn().Err(err).Str("user_id", userID).Str("feedback_id", records[i].ID).Msg("skipping malformed feedback record")
			ds.skipped++
			continue
		}
		ds.X = append(ds.X, ExtractFeatures(track, sc))
		ds.y = append(ds.y, float64(records[i].Rating))
	}

	if len(ds.y) < t.cfg.MinTrainingSamples {
		return nil, Failed[struct{}]("Insufficient valid training samples", ErrInsufficientValidSamples)
	}
	return ds, OK(struct{}{})
}

// fit builds and evaluates a model from ds.
func (t *Trainer) fit(ctx context.Context, userID string, ds *dataset) (*UserModel, error) {
	Xtr, ytr, Xte, yte := t.split(ds.X, ds.y)

	scaler, err := FitScaler(Xtr)
	if err != nil {
		return nil, err
	}
	XtrS, err := scaler.TransformAll(Xtr)
	if err != nil {
		return nil, err
	}
	XteS, err := scaler.TransformAll(Xte)
	if err != nil {
		return nil, err
	}

	forest, err := FitForest(ctx, XtrS, ytr, t.cfg.Forest)
	if err != nil {
		return nil, err
	}

	pred, err := predictAll(forest, XteS)
	if err != nil {
		return nil, err
	}
	mae, rmse := errorMetrics(pred, yte)

	folds := t.cfg.MaxFolds
	if len(ytr) < folds {
		folds = len(ytr)
	}
	cv, err := crossValidate(ctx, XtrS, ytr, folds, t.cfg.Forest)
	if err != nil {
		return nil, err
	}

	return &UserModel{
		UserID:            userID,
		Forest:            forest,
		Scaler:            scaler,
		FeatureImportance: forest.Importances,
		Performance: Performance{
			MAE:             mae,
			RMSE:            rmse,
			CVScore:         cv,
			Accuracy:        math.Max(0, 1-mae/4.0),
			TrainingSamples: len(ytr),
			TestSamples:     len(yte),
		},
		TrainedAt:     t.now(),
		Version:       ModelVersion,
		FeedbackCount: ds.total,
	}, nil
}

// split returns an 80/20 shuffled split when the sample count exceeds the
// split threshold. Smaller datasets train and test on the same rows, which
// inflates reported accuracy for new users.
func (t *Trainer) split(X [][]float64, y []float64) (Xtr [][]float64, ytr []float64, Xte [][]float64, yte []float64) {
	n := len(y)
	if n <= t.cfg.SplitThreshold {
		return X, y, X, y
	}

	rng := rand.New(rand.NewPCG(t.cfg.Forest.Seed, splitStream)) //nolint:gosec // deterministic split, not security
	perm := rng.Perm(n)
	nTest := int(math.Ceil(t.cfg.TestFraction * float64(n)))

	for i, p := range perm {
		if i < nTest {
			Xte = append(Xte, X[p])
			yte = append(yte, y[p])
		} else {
			Xtr = append(Xtr, X[p])
			ytr = append(ytr, y[p])
		}
	}
	return Xtr, ytr, Xte, yte
}

// commit swaps the model in, persists the collection and appends a
// performance-history row.
func (t *Trainer) commit(ctx context.Context, m *UserModel) error {
	persistErr := t.models.Put(ctx, m)

	rec := &models.PerformanceRecord{
		UserID:            m.UserID,
		Accuracy:          m.Performance.Accuracy,
		MAE:               m.Performance.MAE,
		RMSE:              m.Performance.RMSE,
		CVScore:           m.Performance.CVScore,
		TrainingSamples:   m.Performance.TrainingSamples,
		FeatureImportance: m.FeatureImportance,
		ModelVersion:      m.Version,
		RecordedAt:        m.TrainedAt,
	}
	if err := t.store.AppendModelPerformance(ctx, rec); err != nil {
		t.logger.Warn().Err(err).Str("user_id", m.UserID).Msg("failed to record model performance")
	}

	return persistErr
}

func predictAll(f *Forest, X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		p, err := f.Predict(x)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// errorMetrics returns mean absolute error and root mean squared error.
func errorMetrics(pred, y []float64) (mae, rmse float64) {
	n := float64(len(y))
	if n == 0 {
		return 0, 0
	}
	mae = floats.Distance(pred, y, 1) / n
	rmse = floats.Distance(pred, y, 2) / math.Sqrt(n)
	return mae, rmse
}

// r2Score is the coefficient of determination. A fold with constant targets
// scores 1 when predicted exactly and 0 otherwise.
func r2Score(pred, y []float64) float64 {
	mean := stat.Mean(y, nil)
	var tot float64
	for _, v := range y {
		d := v - mean
		tot += d * d
	}
	if tot == 0 {
		if floats.Distance(pred, y, 2) == 0 {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(pred, y, nil)
}

// crossValidate returns the mean R² over unshuffled contiguous folds. The
// first n%k folds hold one extra sample.
func crossValidate(ctx context.Context, X [][]float64, y []float64, k int, cfg ForestConfig) (float64, error) {
	n := len(y)
	if k < 2 || n < 2 {
		return 0, nil
	}

	scores := make([]float64, 0, k)
	start := 0
	for fold := 0; fold < k; fold++ {
		size := n / k
		if fold < n%k {
			size++
		}
		end := start + size

		var Xtr, Xte [][]float64
		var ytr, yte []float64
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				Xte = append(Xte, X[i])
				yte = append(yte, y[i])
			} else {
				Xtr = append(Xtr, X[i])
				ytr = append(ytr, y[i])
			}
		}
		start = end

		f, err := FitForest(ctx, Xtr, ytr, cfg)
		if err != nil {
			return 0, fmt.Errorf("cross-validation fold %d: %w", fold, err)
		}
		pred, err := predictAll(f, Xte)
		if err != nil {
			return 0, fmt.Errorf("cross-validation fold %d: %w", fold, err)
		}
		scores = append(scores, r2Score(pred, yte))
	}
	return stat.Mean(scores, nil), nil
}
