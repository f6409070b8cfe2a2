package algorithms

import "github.com/dd0wney/cluso-followgraph/pkg/graph"

// LabelPropagation performs label propagation for community detection.
// Nodes are visited in index order and adopt the label with the largest
// incident weight among their neighbours; a node keeps its label when it is
// among the best, otherwise the lowest best label wins.
func LabelPropagation(g *graph.Undirected, maxIterations int) *CommunityDetectionResult {
	n := g.NodeCount()

	// Initialize: each node in its own community
	labels := make([]int, n)
	for v := range labels {
		labels[v] = v
	}

	// Iterate until convergence or max iterations
	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for v := 0; v < n; v++ {
			neighbors := g.Neighbors(v)
			if len(neighbors) == 0 {
				continue
			}

			labelWeight := make(map[int]float64, len(neighbors))
			for _, u := range neighbors {
				labelWeight[labels[u]] += g.Weight(v, u)
			}

			best := -1.0
			bestLabel := labels[v]
			for label, w := range labelWeight {
				if w > best || (w == best && label < bestLabel) {
					best = w
					bestLabel = label
				}
			}
			if labelWeight[labels[v]] == best {
				continue
			}

			labels[v] = bestLabel
			changed = true
		}

		if !changed {
			break
		}
	}

	return newResult(g, labels)
}
