package algorithms

import "github.com/dd0wney/cluso-followgraph/pkg/graph"

// Modularity computes Newman's Q = Σ_c [L_c/m - (d_c/2m)²] for the
// partition, with L_c, d_c and m taken from edge weights. A graph with no
// edges has Q = 0.
func Modularity(g *graph.Undirected, membership []int) float64 {
	return modularity(g, membership, true)
}

// UnweightedModularity is Modularity with every edge counted once.
func UnweightedModularity(g *graph.Undirected, membership []int) float64 {
	return modularity(g, membership, false)
}

func modularity(g *graph.Undirected, membership []int, weighted bool) float64 {
	m := float64(g.EdgeCount())
	if weighted {
		m = g.TotalWeight()
	}
	if m == 0 {
		return 0.0
	}

	k := 0
	for _, c := range membership {
		if c+1 > k {
			k = c + 1
		}
	}
	internal := make([]float64, k)
	degree := make([]float64, k)

	for u := 0; u < g.NodeCount(); u++ {
		c := membership[u]
		for _, v := range g.Neighbors(u) {
			w := 1.0
			if weighted {
				w = g.Weight(u, v)
			}
			degree[c] += w
			if u < v && membership[v] == c {
				internal[c] += w
			}
		}
	}

	// Summed in community id order so equal inputs give bit-identical Q.
	q := 0.0
	for c, d := range degree {
		share := d / (2 * m)
		q += internal[c]/m - share*share
	}
	return q
}
