package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-followgraph/pkg/graph"
)

// brandes runs one O(VE) Brandes pass over the directed graph and returns raw
// (unnormalised) node betweenness indexed by node.
func brandes(g *graph.Directed) []float64 {
	n := g.NodeCount()
	betweenness := make([]float64, n)

	stack := make([]int, 0, n)
	queue := make([]int, 0, n)
	predecessors := make([][]int, n)
	sigma := make([]float64, n)
	distance := make([]int, n)
	delta := make([]float64, n)

	for source := 0; source < n; source++ {
		// Isolated sources reach nobody
		if g.OutDegree(source) == 0 {
			continue
		}

		stack = stack[:0]
		queue = queue[:0]
		for v := 0; v < n; v++ {
			predecessors[v] = predecessors[v][:0]
			sigma[v] = 0
			distance[v] = -1
			delta[v] = 0
		}

		sigma[source] = 1
		distance[source] = 0
		queue = append(queue, source)

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)

			for _, w := range g.Out(v) {
				if distance[w] < 0 {
					queue = append(queue, w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation in reverse BFS order
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	return betweenness
}

// BetweennessCentrality computes shortest-path betweenness for every node of
// the directed graph, isolated nodes included. Scores are normalised by
// 1/((n-1)(n-2)) so the maximum attainable value is 1; with fewer than three
// nodes no node can lie between two others and all scores are 0.
func BetweennessCentrality(g *graph.Directed) []float64 {
	betweenness := brandes(g)

	n := g.NodeCount()
	if n > 2 {
		normFactor := 1.0 / float64((n-1)*(n-2))
		for v := range betweenness {
			betweenness[v] *= normFactor
		}
	}

	return betweenness
}

// RankedNode is a node with a score.
type RankedNode struct {
	Node  int
	Score float64
}

// TopNodes returns the k highest scores, descending, ties broken by lower
// node index.
func TopNodes(scores []float64, k int) []RankedNode {
	if k <= 0 {
		return nil
	}

	ranked := make([]RankedNode, len(scores))
	for v, s := range scores {
		ranked[v] = RankedNode{Node: v, Score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Node < ranked[j].Node
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
