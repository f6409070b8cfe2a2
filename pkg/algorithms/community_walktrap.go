package algorithms

import "github.com/dd0wney/cluso-followgraph/pkg/graph"

// DefaultWalktrapSteps is the random walk length used when none is given.
const DefaultWalktrapSteps = 4

type walkCommunity struct {
	size  int
	probs []float64 // P^t_C. over all nodes
}

type communityPair struct{ a, b int } // a < b

// Walktrap performs random-walk community detection (Pons & Latapy 2005).
// Every node carries a self-loop weighted by the mean of its incident edge
// weights. Adjacent communities are merged in order of the smallest increase
// in mean squared random-walk distance Δσ, ties going to the lowest id pair.
// The dendrogram is cut where weighted modularity peaks, at the earliest
// level among equals.
func Walktrap(g *graph.Undirected, steps int) *CommunityDetectionResult {
	n := g.NodeCount()
	if steps <= 0 {
		steps = DefaultWalktrapSteps
	}

	membership := identity(n)
	if n == 0 || g.TotalWeight() == 0 {
		return newResult(g, membership)
	}

	degree, loop := walkDegrees(g)

	communities := make(map[int]*walkCommunity, n)
	for v := 0; v < n; v++ {
		communities[v] = &walkCommunity{size: 1, probs: walkFrom(g, v, steps, degree, loop)}
	}

	neighbors := make(map[int]map[int]bool, n)
	pairs := make(map[communityPair]float64)
	for u := 0; u < n; u++ {
		neighbors[u] = make(map[int]bool, len(g.Neighbors(u)))
		for _, v := range g.Neighbors(u) {
			neighbors[u][v] = true
			if u < v {
				pairs[communityPair{u, v}] = deltaSigma(communities[u], communities[v], degree, n)
			}
		}
	}

	best := append([]int(nil), membership...)
	bestQ := Modularity(g, membership)
	nextID := n

	for len(pairs) > 0 {
		pick := minPair(pairs)
		c1, c2 := communities[pick.a], communities[pick.b]

		merged := &walkCommunity{size: c1.size + c2.size, probs: make([]float64, n)}
		for k := range merged.probs {
			merged.probs[k] = (float64(c1.size)*c1.probs[k] + float64(c2.size)*c2.probs[k]) / float64(merged.size)
		}

		id := nextID
		nextID++
		communities[id] = merged
		neighbors[id] = make(map[int]bool)

		for _, old := range []int{pick.a, pick.b} {
			for k := range neighbors[old] {
				delete(pairs, orderedPair(old, k))
				delete(neighbors[k], old)
				if k != pick.a && k != pick.b {
					neighbors[id][k] = true
				}
			}
			delete(neighbors, old)
			delete(communities, old)
		}
		for k := range neighbors[id] {
			neighbors[k][id] = true
			pairs[orderedPair(k, id)] = deltaSigma(merged, communities[k], degree, n)
		}

		for v, c := range membership {
			if c == pick.a || c == pick.b {
				membership[v] = id
			}
		}
		if q := Modularity(g, membership); q > bestQ {
			bestQ = q
			copy(best, membership)
		}
	}

	return newResult(g, best)
}

// walkDegrees returns d(k) including the self-loop, and the self-loop weight.
func walkDegrees(g *graph.Undirected) ([]float64, []float64) {
	n := g.NodeCount()
	degree := make([]float64, n)
	loop := make([]float64, n)
	for v := 0; v < n; v++ {
		if k := len(g.Neighbors(v)); k > 0 {
			loop[v] = g.Strength(v) / float64(k)
		} else {
			loop[v] = 1.0
		}
		degree[v] = g.Strength(v) + loop[v]
	}
	return degree, loop
}

// walkFrom returns the distribution of a t-step random walk started at v.
func walkFrom(g *graph.Undirected, v, steps int, degree, loop []float64) []float64 {
	n := g.NodeCount()
	cur := make([]float64, n)
	next := make([]float64, n)
	cur[v] = 1.0

	for s := 0; s < steps; s++ {
		for k := range next {
			next[k] = 0
		}
		for k, p := range cur {
			if p == 0 {
				continue
			}
			next[k] += p * loop[k] / degree[k]
			for _, j := range g.Neighbors(k) {
				next[j] += p * g.Weight(k, j) / degree[k]
			}
		}
		cur, next = next, cur
	}
	return cur
}

func deltaSigma(c1, c2 *walkCommunity, degree []float64, n int) float64 {
	dist := 0.0
	for k := range degree {
		d := c1.probs[k] - c2.probs[k]
		dist += d * d / degree[k]
	}
	s1, s2 := float64(c1.size), float64(c2.size)
	return (s1 * s2 / (s1 + s2)) * dist / float64(n)
}

func minPair(pairs map[communityPair]float64) communityPair {
	var best communityPair
	bestDelta := 0.0
	found := false
	for p, d := range pairs {
		if !found || d < bestDelta || (d == bestDelta && (p.a < best.a || (p.a == best.a && p.b < best.b))) {
			best, bestDelta, found = p, d, true
		}
	}
	return best
}

func orderedPair(a, b int) communityPair {
	if a > b {
		a, b = b, a
	}
	return communityPair{a, b}
}
