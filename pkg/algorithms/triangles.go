package algorithms

import "github.com/dd0wney/cluso-followgraph/pkg/graph"

// TriangleCountResult holds directed triad counts over out-neighbourhoods.
type TriangleCountResult struct {
	PerNode  []int // closed ordered successor pairs per node
	Triads   []int // d_out(d_out-1) per node
	Closed   int
	Possible int
}

// CountTriangles counts, for every node v, the ordered pairs (w,u) of
// distinct successors of v with an edge w->u.
func CountTriangles(g *graph.Directed) *TriangleCountResult {
	n := g.NodeCount()
	result := &TriangleCountResult{
		PerNode: make([]int, n),
		Triads:  make([]int, n),
	}

	for v := 0; v < n; v++ {
		succs := g.Out(v)
		closed := 0
		for _, w := range succs {
			for _, u := range succs {
				if u != w && g.HasEdge(w, u) {
					closed++
				}
			}
		}
		d := len(succs)
		result.PerNode[v] = closed
		result.Triads[v] = d * (d - 1)
		result.Closed += closed
		result.Possible += d * (d - 1)
	}

	return result
}

// Transitivity is the fraction of successor triads that are closed. It is 0
// when nothing is closed.
func Transitivity(g *graph.Directed) float64 {
	result := CountTriangles(g)
	if result.Closed == 0 {
		return 0.0
	}
	return float64(result.Closed) / float64(result.Possible)
}
