// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// Pattern thresholds and defaults.
const (
	highRatingThreshold = 4
	lowRatingThreshold  = 2

	topPatternEntries = 5
	moodTagsPerTrack  = 2

	defaultPeakHour = 12
	defaultPeakDay  = "Monday"
)

// weekdays in reporting order. Peak-day ties resolve to the earliest entry.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// counter tallies strings and remembers first-seen order so ties rank stably.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(s string) {
	if s == "" {
		return
	}
	if _, ok := c.counts[s]; !ok {
		c.order = append(c.order, s)
	}
	c.counts[s]++
}

// top returns up to n entries by descending count; ties keep first-seen order.
func (c *counter) top(n int) []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	// insertion sort keeps ties stable and lists are short
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && c.counts[out[j]] > c.counts[out[j-1]]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// preferencePatterns summarizes tracks rated highly. Malformed records are
// ignored.
func preferencePatterns(feedback []models.FeedbackRecord) models.PreferencePatterns {
	artists := newCounter()
	genres := newCounter()
	var energy []float64

	for i := range feedback {
		if feedback[i].Rating < highRatingThreshold {
			continue
		}
		track, _, err := feedback[i].Snapshot()
		if err != nil {
			continue
		}
		artists.add(track.Artist)
		for _, tag := range track.Tags {
			genres.add(tag)
		}
		energy = append(energy, track.Features.Resolved().Energy)
	}

	p := models.PreferencePatterns{
		PreferredArtists: artists.top(topPatternEntries),
		PreferredGenres:  genres.top(topPatternEntries),
	}
	if len(energy) > 0 {
		avg := stat.Mean(energy, nil)
		p.AverageEnergy = &avg
	}
	return p
}

// feedbackPatterns summarizes rating behaviour. Preferred moods are the
// first two tags of each highly rated track, most frequent first.
func feedbackPatterns(feedback []models.FeedbackRecord) models.FeedbackPatterns {
	moods := newCounter()
	ratings := make([]float64, 0, len(feedback))

	for i := range feedback {
		ratings = append(ratings, float64(feedback[i].Rating))
		if feedback[i].Rating < highRatingThreshold {
			continue
		}
		track, _, err := feedback[i].Snapshot()
		if err != nil {
			continue
		}
		tags := track.Tags
		if len(tags) > moodTagsPerTrack {
			tags = tags[:moodTagsPerTrack]
		}
		for _, tag := range tags {
			moods.add(strings.ToLower(tag))
		}
	}

	p := models.FeedbackPatterns{
		PreferredMoods: moods.top(topPatternEntries),
		TotalRatings:   len(feedback),
	}
	if p.PreferredMoods == nil {
		p.PreferredMoods = []string{}
	}
	if len(ratings) > 0 {
		p.AverageRating = stat.Mean(ratings, nil)
	}
	return p
}

// temporalPatterns buckets interaction times by hour of day and weekday.
func temporalPatterns(times []time.Time) models.TemporalPatterns {
	p := models.TemporalPatterns{
		HourlyActivity: make(map[int]int),
		DailyActivity:  make(map[string]int),
		PeakHour:       defaultPeakHour,
		PeakDay:        defaultPeakDay,
	}
	if len(times) == 0 {
		return p
	}

	for _, t := range times {
		p.HourlyActivity[t.Hour()]++
		p.DailyActivity[t.Weekday().String()]++
	}

	best := 0
	for h := 0; h < 24; h++ {
		if n := p.HourlyActivity[h]; n > best {
			best, p.PeakHour = n, h
		}
	}
	best = 0
	for _, d := range weekdays {
		if n := p.DailyActivity[d.String()]; n > best {
			best, p.PeakDay = n, d.String()
		}
	}
	return p
}

// RatingSummary is the rating distribution of a user's feedback.
type RatingSummary struct {
	Distribution map[int]int `json:"rating_distribution"`
	Average      float64     `json:"average_rating"`
	Total        int         `json:"total_ratings"`
	Positive     int         `json:"positive_ratings"`
	Negative     int         `json:"negative_ratings"`
	Variance     float64     `json:"rating_variance"`
}

func summarizeRatings(feedback []models.FeedbackRecord) RatingSummary {
	s := RatingSummary{Distribution: make(map[int]int), Total: len(feedback)}
	if len(feedback) == 0 {
		return s
	}

	ratings := make([]float64, len(feedback))
	for i := range feedback {
		r := feedback[i].Rating
		ratings[i] = float64(r)
		s.Distribution[r]++
		switch {
		case r >= highRatingThreshold:
			s.Positive++
		case r <= lowRatingThreshold:
			s.Negative++
		}
	}
	mean, std := stat.PopMeanStdDev(ratings, nil)
	s.Average = mean
	s.Variance = std * std
	return s
}
