package algorithms

import (
	"math"

	"github.com/dd0wney/cluso-followgraph/pkg/graph"
)

// PageRankOptions configures PageRank algorithm
type PageRankOptions struct {
	DampingFactor float64 // Usually 0.85
	MaxIterations int
	Tolerance     float64 // Convergence threshold
}

// DefaultPageRankOptions returns default PageRank configuration
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// PageRankResult contains PageRank scores for all nodes
type PageRankResult struct {
	Scores     []float64 // indexed by node
	Iterations int
	Converged  bool
}

// PageRank computes PageRank scores over follow edges, so rank flows from
// follower to followee. Mass lost at dangling nodes is restored by the final
// normalisation to sum 1.
func PageRank(g *graph.Directed, opts PageRankOptions) *PageRankResult {
	n := g.NodeCount()
	if n == 0 {
		return &PageRankResult{Scores: []float64{}, Converged: true}
	}

	scores := make([]float64, n)
	initialScore := 1.0 / float64(n)
	for v := range scores {
		scores[v] = initialScore
	}

	newScores := make([]float64, n)
	converged := false
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		for v := 0; v < n; v++ {
			newScore := (1.0 - opts.DampingFactor) / float64(n)
			for _, from := range g.In(v) {
				newScore += opts.DampingFactor * (scores[from] / float64(g.OutDegree(from)))
			}
			newScores[v] = newScore
		}

		maxDiff := 0.0
		for v := range scores {
			if diff := math.Abs(newScores[v] - scores[v]); diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, newScores = newScores, scores

		if maxDiff < opts.Tolerance {
			converged = true
			break
		}
	}

	sum := 0.0
	for _, score := range scores {
		sum += score
	}
	if sum > 0 {
		for v := range scores {
			scores[v] /= sum
		}
	}

	return &PageRankResult{
		Scores:     scores,
		Iterations: iterations,
		Converged:  converged,
	}
}
