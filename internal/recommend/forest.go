// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Forest is a bagged ensemble of regression trees (CART, squared-error
// criterion). Every tree sees a bootstrap sample and considers all features
// at each split. Fields are exported for gob persistence; a fitted Forest is
// never mutated.
type Forest struct {
	Trees []Tree
	// Importances is the mean impurity decrease per feature, normalized to sum to 1.
	Importances []float64
	NFeatures   int
}

// Tree is a flat array of nodes; index 0 is the root.
type Tree struct {
	Nodes []Node
}

// Node is a split (Feature >= 0) or a leaf (Feature == -1).
type Node struct {
	Feature   int
	Threshold float64
	Left      int32
	Right     int32
	Value     float64
}

const leafFeature = -1

// FitForest fits cfg.Trees trees in parallel. Tree i draws its bootstrap
// sample from a PCG stream seeded with (cfg.Seed, i), so the result does not
// depend on scheduling.
func FitForest(ctx context.Context, X [][]float64, y []float64, cfg ForestConfig) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("fit forest: %d rows and %d targets", len(X), len(y))
	}
	nFeatures := len(X[0])

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Trees {
		workers = cfg.Trees
	}

	trees := make([]Tree, cfg.Trees)
	importances := make([][]float64, cfg.Trees)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				rng := rand.New(rand.NewPCG(cfg.Seed, uint64(t))) //nolint:gosec // deterministic bagging, not security
				b := &treeBuilder{X: X, y: y, maxDepth: cfg.MaxDepth, importance: make([]float64, nFeatures)}
				b.build(bootstrap(rng, len(y)), 0)
				trees[t] = Tree{Nodes: b.nodes}
				importances[t] = b.importance
			}
		}()
	}

	var cancelled error
	for t := 0; t < cfg.Trees; t++ {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("fit forest: %w", cancelled)
	}

	return &Forest{
		Trees:       trees,
		Importances: averageImportances(importances, nFeatures),
		NFeatures:   nFeatures,
	}, nil
}

// Predict returns the mean leaf value across trees.
func (f *Forest) Predict(x []float64) (float64, error) {
	if len(x) != f.NFeatures {
		return 0, fmt.Errorf("predict: got %d features, model fitted on %d", len(x), f.NFeatures)
	}
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("predict: empty forest")
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

func (t *Tree) predict(x []float64) float64 {
	i := int32(0)
	for {
		n := &t.Nodes[i]
		if n.Feature == leafFeature {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// averageImportances normalizes each tree's importances, averages them and
// renormalizes. Trees that never split contribute zeros.
func averageImportances(perTree [][]float64, nFeatures int) []float64 {
	out := make([]float64, nFeatures)
	for _, imp := range perTree {
		total := floats.Sum(imp)
		if total <= 0 {
			continue
		}
		for j, v := range imp {
			out[j] += v / total
		}
	}
	if len(perTree) > 0 {
		floats.Scale(1/float64(len(perTree)), out)
	}
	if total := floats.Sum(out); total > 0 {
		floats.Scale(1/total, out)
	}
	return out
}

type treeBuilder struct {
	X          [][]float64
	y          []float64
	maxDepth   int
	nodes      []Node
	importance []float64
}

// build grows the subtree over samples and returns its node index.
func (b *treeBuilder) build(samples []int, depth int) int32 {
	idx := int32(len(b.nodes))
	mean, sse := b.stats(samples)
	b.nodes = append(b.nodes, Node{Feature: leafFeature, Value: mean})

	if depth >= b.maxDepth || len(samples) < 2 || sse <= 1e-12 {
		return idx
	}

	feature, threshold, gain, ok := b.bestSplit(samples, sse)
	if !ok {
		return idx
	}

	left := make([]int, 0, len(samples))
	right := make([]int, 0, len(samples))
	for _, s := range samples {
		if b.X[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	b.importance[feature] += gain
	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[idx] = Node{Feature: feature, Threshold: threshold, Left: l, Right: r, Value: mean}
	return idx
}

func (b *treeBuilder) stats(samples []int) (mean, sse float64) {
	var sum, sumSq float64
	for _, s := range samples {
		sum += b.y[s]
		sumSq += b.y[s] * b.y[s]
	}
	n := float64(len(samples))
	mean = sum / n
	sse = sumSq - sum*sum/n
	if sse < 0 {
		sse = 0
	}
	return mean, sse
}

// bestSplit scans every feature for the threshold with the largest SSE
// reduction. Thresholds sit midway between adjacent distinct values. Ties
// keep the lowest feature index.
func (b *treeBuilder) bestSplit(samples []int, parentSSE float64) (feature int, threshold, gain float64, ok bool) {
	n := len(samples)
	order := make([]int, n)
	var total, totalSq float64
	for _, s := range samples {
		total += b.y[s]
		totalSq += b.y[s] * b.y[s]
	}

	for f := 0; f < len(b.X[samples[0]]); f++ {
		copy(order, samples)
		slices.SortStableFunc(order, func(a, c int) int {
			switch va, vc := b.X[a][f], b.X[c][f]; {
			case va < vc:
				return -1
			case va > vc:
				return 1
			default:
				return 0
			}
		})

		var leftSum, leftSq float64
		for i := 0; i < n-1; i++ {
			yi := b.y[order[i]]
			leftSum += yi
			leftSq += yi * yi

			lo, hi := b.X[order[i]][f], b.X[order[i+1]][f]
			if hi <= lo {
				continue
			}

			nl := float64(i + 1)
			nr := float64(n - i - 1)
			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)

			if g := parentSSE - sse; g > gain+1e-12 {
				feature, threshold, gain, ok = f, lo+(hi-lo)/2, g, true
			}
		}
	}
	return feature, threshold, gain, ok
}
