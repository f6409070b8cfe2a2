package algorithms

import "github.com/dd0wney/cluso-followgraph/pkg/graph"

// ClusteringCoefficient computes the directed local clustering coefficient of
// every node (Fagiolo 2007). Each of the four orientations a closed triad can
// take is counted, normalised by the number of triads the node's total and
// bidirectional degrees allow.
func ClusteringCoefficient(g *graph.Directed) []float64 {
	n := g.NodeCount()
	coefficients := make([]float64, n)

	for i := 0; i < n; i++ {
		preds, succs := g.In(i), g.Out(i)

		triangles := 0
		countWith := func(j int) {
			for _, k := range preds {
				triangles += edgeCount(g, k, j) + edgeCount(g, j, k)
			}
			for _, k := range succs {
				triangles += edgeCount(g, k, j) + edgeCount(g, j, k)
			}
		}
		for _, j := range preds {
			countWith(j)
		}
		for _, j := range succs {
			countWith(j)
		}

		if triangles == 0 {
			continue
		}

		dTotal := len(preds) + len(succs)
		dBidirectional := 0
		for _, j := range succs {
			if g.HasEdge(j, i) {
				dBidirectional++
			}
		}

		possible := 2 * (dTotal*(dTotal-1) - 2*dBidirectional)
		coefficients[i] = float64(triangles) / float64(possible)
	}

	return coefficients
}

// AverageClustering averages ClusteringCoefficient over all nodes, isolated
// nodes contributing 0.
func AverageClustering(g *graph.Directed) float64 {
	n := g.NodeCount()
	if n == 0 {
		return 0.0
	}
	sum := 0.0
	for _, c := range ClusteringCoefficient(g) {
		sum += c
	}
	return sum / float64(n)
}

func edgeCount(g *graph.Directed, u, v int) int {
	if g.HasEdge(u, v) {
		return 1
	}
	return 0
}
