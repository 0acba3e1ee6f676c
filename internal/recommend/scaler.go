// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes features to zero mean and unit variance using the
// population standard deviation. Constant columns get a scale of 1.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-column mean and standard deviation.
func FitScaler(X [][]float64) (*Scaler, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("fit scaler: no rows")
	}
	cols := len(X[0])
	s := &Scaler{Mean: make([]float64, cols), Scale: make([]float64, cols)}

	column := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i, row := range X {
			if len(row) != cols {
				return nil, fmt.Errorf("fit scaler: row %d has %d columns, want %d", i, len(row), cols)
			}
			column[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		if std < 1e-12 {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}
	return s, nil
}

// Transform returns a standardized copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("transform: got %d features, scaler fitted on %d", len(x), len(s.Mean))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformAll standardizes every row of X.
func (s *Scaler) TransformAll(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		t, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}
