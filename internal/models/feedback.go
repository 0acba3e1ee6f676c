// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Rating bounds for user feedback.
const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrInvalidRating is returned when a rating falls outside [MinRating, MaxRating].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrNoTrackSnapshot marks a record stored without any track data.
	ErrNoTrackSnapshot = errors.New("no track snapshot captured")
)

// FeedbackRecord is one user's rating of one track. The track and context are
// stored as serialized snapshots taken at rating time, so a record survives
// schema drift in upstream track payloads. Records are immutable once stored.
type FeedbackRecord struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	InteractionID string `json:"interaction_id,omitempty"`
	TrackID       string `json:"track_id"`
	TrackName     string `json:"track_name"`
	Artist        string `json:"artist"`
	Album         string `json:"album,omitempty"`
	Rating        int    `json:"rating"`

	// PredictedRating and RLConfidence record what the model believed when the
	// track was served, if it was personalized.
	PredictedRating *float64 `json:"predicted_rating,omitempty"`
	RLConfidence    *float64 `json:"rl_confidence,omitempty"`

	Text string `json:"feedback_text,omitempty"`

	// Serialized snapshots: AudioFeatures, []string and SituationalContext.
	TrackFeatures string `json:"track_features,omitempty"`
	TrackTags     string `json:"track_tags,omitempty"`
	ContextData   string `json:"context_data,omitempty"`

	Source         string    `json:"source,omitempty"`
	Popularity     float64   `json:"popularity"`
	RelevanceScore float64   `json:"relevance_score"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewFeedbackRecord builds a record with serialized snapshots of track and sc.
// track may be nil when only the track id is known.
func NewFeedbackRecord(userID, trackID string, track *Track, sc *SituationalContext, rating int, text string) (*FeedbackRecord, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidRating, rating)
	}

	rec := &FeedbackRecord{
		UserID:  userID,
		TrackID: trackID,
		Rating:  rating,
		Text:    text,
	}

	if track != nil {
		rec.TrackName = track.Name
		rec.Artist = track.Artist
		rec.Album = track.Album
		rec.Source = string(track.Source)
		rec.Popularity = track.Popularity
		rec.RelevanceScore = track.RelevanceScore

		features, err := json.Marshal(track.Features)
		if err != nil {
			return nil, fmt.Errorf("marshal track features: %w", err)
		}
		rec.TrackFeatures = string(features)

		tags := track.Tags
		if tags == nil {
			tags = []string{}
		}
		tagJSON, err := json.Marshal(tags)
		if err != nil {
			return nil, fmt.Errorf("marshal track tags: %w", err)
		}
		rec.TrackTags = string(tagJSON)
	}

	if sc != nil {
		ctxJSON, err := json.Marshal(sc)
		if err != nil {
			return nil, fmt.Errorf("marshal context: %w", err)
		}
		rec.ContextData = string(ctxJSON)
	}

	return rec, nil
}

// Snapshot reconstructs the pseudo-track and context captured at rating time.
// An error means the record is malformed and must not be used for training.
func (r *FeedbackRecord) Snapshot() (Track, *SituationalContext, error) {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return Track{}, nil, fmt.Errorf("%w, got %d", ErrInvalidRating, r.Rating)
	}
	if r.TrackName == "" && r.Artist == "" && isEmptyJSON(r.TrackFeatures) && isEmptyJSON(r.TrackTags) {
		return Track{}, nil, fmt.Errorf("track %s: %w", r.TrackID, ErrNoTrackSnapshot)
	}

	track := Track{
		ID:             r.TrackID,
		Name:           r.TrackName,
		Artist:         r.Artist,
		Album:          r.Album,
		Source:         ParseSource(r.Source),
		Popularity:     r.Popularity,
		RelevanceScore: r.RelevanceScore,
	}

	if !isEmptyJSON(r.TrackFeatures) {
		var features AudioFeatures
		if err := json.Unmarshal([]byte(r.TrackFeatures), &features); err != nil {
			return Track{}, nil, fmt.Errorf("decode track features: %w", err)
		}
		track.Features = &features
	}

	if !isEmptyJSON(r.TrackTags) {
		if err := json.Unmarshal([]byte(r.TrackTags), &track.Tags); err != nil {
			return Track{}, nil, fmt.Errorf("decode track tags: %w", err)
		}
	}

	var sc *SituationalContext
	if !isEmptyJSON(r.ContextData) {
		sc = &SituationalContext{}
		if err := json.Unmarshal([]byte(r.ContextData), sc); err != nil {
			return Track{}, nil, fmt.Errorf("decode context: %w", err)
		}
	}

	return track, sc, nil
}

// isEmptyJSON treats "", "null", "{}" and "[]" as absent.
func isEmptyJSON(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}

// PerformanceRecord is one row of a user's model performance history.
type PerformanceRecord struct {
	UserID            string    `json:"user_id"`
	Accuracy          float64   `json:"accuracy"`
	MAE               float64   `json:"mae"`
	RMSE              float64   `json:"rmse"`
	CVScore           float64   `json:"cv_score"`
	TrainingSamples   int       `json:"training_samples"`
	FeatureImportance []float64 `json:"feature_importance,omitempty"`
	ModelVersion      string    `json:"model_version"`
	RecordedAt        time.Time `json:"timestamp"`
}
