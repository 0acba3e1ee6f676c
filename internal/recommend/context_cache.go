// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/metrics"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/recommend/reranking"
)

// Invalidation reasons, used as a metrics label.
const (
	InvalidateFeedback = "feedback"
	InvalidateRetrain  = "retrain"
)

// ContextSnapshot is the aggregated per-user view used while serving.
// Snapshots are shared between readers and must not be modified.
type ContextSnapshot struct {
	UserID        string                    `json:"user_id"`
	Recent        []models.Interaction      `json:"recent_interactions"`
	FeedbackCount int                       `json:"feedback_count"`
	Preferences   models.PreferencePatterns `json:"preference_patterns"`
	Feedback      models.FeedbackPatterns   `json:"feedback_patterns"`
	Temporal      models.TemporalPatterns   `json:"temporal_patterns"`
	Insights      *Insights                 `json:"rl_insights"`
	BuiltAt       time.Time                 `json:"timestamp"`

	history *reranking.History
}

// History returns the diversity view of the recent interactions.
func (s *ContextSnapshot) History() *reranking.History {
	return s.history
}

// contextBuildTimeout bounds a shared snapshot build. The build outlives the
// request that started it, since other callers may be waiting on it.
const contextBuildTimeout = 30 * time.Second

// snapshotBuilder aggregates a fresh snapshot.
type snapshotBuilder func(ctx context.Context, userID string) (*ContextSnapshot, error)

// ContextCache holds snapshots for a bounded time. Concurrent misses for the
// same user share one build. A build that overlaps an invalidation is
// returned to its callers but never cached.
type ContextCache struct {
	lru   *expirable.LRU[string, *ContextSnapshot]
	group singleflight.Group
	build snapshotBuilder

	// generations and epoch change on every invalidation and purge.
	mu          sync.Mutex
	generations map[string]uint64
	epoch       uint64
}

// NewContextCache creates a cache of at most size snapshots, each kept for ttl.
func NewContextCache(size int, ttl time.Duration, build snapshotBuilder) *ContextCache {
	return &ContextCache{
		lru:         expirable.NewLRU[string, *ContextSnapshot](size, nil, ttl),
		build:       build,
		generations: make(map[string]uint64),
	}
}

func (c *ContextCache) generation(userID string) (epoch, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch, c.generations[userID]
}

// GetOrBuild returns the cached snapshot or builds a new one.
func (c *ContextCache) GetOrBuild(ctx context.Context, userID string) (*ContextSnapshot, error) {
	if snap, ok := c.lru.Get(userID); ok {
		metrics.RecordContextCache(true)
		return snap, nil
	}
	metrics.RecordContextCache(false)

	epoch, gen := c.generation(userID)
	key := userID + "#" + strconv.FormatUint(epoch, 10) + "." + strconv.FormatUint(gen, 10)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), contextBuildTimeout)
		defer cancel()

		snap, err := c.build(buildCtx, userID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.epoch == epoch && c.generations[userID] == gen {
			c.lru.Add(userID, snap)
		}
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, fmt.Errorf("build context for %s: %w", userID, err)
	}
	return v.(*ContextSnapshot), nil
}

// Invalidate drops the user's snapshot so the next read rebuilds it.
func (c *ContextCache) Invalidate(userID, reason string) {
	c.mu.Lock()
	c.generations[userID]++
	c.lru.Remove(userID)
	c.mu.Unlock()
	metrics.ContextCacheInvalidations.WithLabelValues(reason).Inc()
}

// Len returns the number of cached snapshots.
func (c *ContextCache) Len() int {
	return c.lru.Len()
}

// Purge drops every snapshot.
func (c *ContextCache) Purge() {
	c.mu.Lock()
	c.epoch++
	clear(c.generations)
	c.lru.Purge()
	c.mu.Unlock()
}
