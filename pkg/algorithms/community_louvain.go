package algorithms

import (
	"math/rand/v2"

	"github.com/dd0wney/cluso-followgraph/pkg/graph"
)

// LouvainOptions configures Louvain community detection
type LouvainOptions struct {
	Resolution float64
	Threshold  float64 // minimum modularity gain between levels
	Seed       uint64
}

// DefaultLouvainOptions returns default Louvain configuration
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		Resolution: 1.0,
		Threshold:  1e-7,
		Seed:       42,
	}
}

// levelGraph is the aggregated graph of one Louvain level. Self-loops are
// stored once in adj[u][u] and counted twice in degree.
type levelGraph struct {
	adj    []map[int]float64
	degree []float64
	m      float64
}

func newLevelGraph(g *graph.Undirected) *levelGraph {
	n := g.NodeCount()
	lg := &levelGraph{
		adj:    make([]map[int]float64, n),
		degree: make([]float64, n),
		m:      g.TotalWeight(),
	}
	for u := 0; u < n; u++ {
		lg.adj[u] = make(map[int]float64, len(g.Neighbors(u)))
		for _, v := range g.Neighbors(u) {
			lg.adj[u][v] = g.Weight(u, v)
		}
		lg.degree[u] = g.Strength(u)
	}
	return lg
}

// Louvain performs multi-level modularity optimisation (Blondel et al. 2008).
// Node visiting order within a level is a shuffle drawn from a PCG source
// seeded with opts.Seed, so equal inputs give equal partitions. Among equal
// gains the lowest community id wins. Levels stop once modularity improves by
// no more than opts.Threshold.
func Louvain(g *graph.Undirected, opts LouvainOptions) *CommunityDetectionResult {
	n := g.NodeCount()
	membership := make([]int, n)
	for v := range membership {
		membership[v] = v
	}
	if g.TotalWeight() == 0 {
		return newResult(g, membership)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	lg := newLevelGraph(g)

	// inner[u] is the community of level node u after a pass
	inner, improved := lg.oneLevel(rng, opts.Resolution)
	mod := lg.modularity(identity(n), opts.Resolution)

	for {
		for v := range membership {
			membership[v] = inner[membership[v]]
		}

		newMod := lg.modularity(inner, opts.Resolution)
		if newMod-mod <= opts.Threshold {
			break
		}
		mod = newMod

		lg = lg.aggregate(inner)
		inner, improved = lg.oneLevel(rng, opts.Resolution)
		if !improved {
			break
		}
	}

	return newResult(g, membership)
}

// oneLevel moves nodes between neighbouring communities until no move
// increases modularity. It returns the dense community of every node and
// whether any node moved.
func (lg *levelGraph) oneLevel(rng *rand.Rand, resolution float64) ([]int, bool) {
	n := len(lg.adj)
	community := identity(n)
	total := append([]float64(nil), lg.degree...)

	order := identity(n)
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	m := lg.m
	improved := false
	for moves := 1; moves > 0; {
		moves = 0
		for _, u := range order {
			current := community[u]
			degree := lg.degree[u]

			toCommunity := make(map[int]float64)
			for _, v := range sortedKeys(lg.adj[u]) {
				if v != u {
					toCommunity[community[v]] += lg.adj[u][v]
				}
			}

			total[current] -= degree
			removeCost := -toCommunity[current]/m + resolution*total[current]*degree/(2*m*m)

			best := current
			bestGain := 0.0
			for _, c := range sortedKeys(toCommunity) {
				gain := removeCost + toCommunity[c]/m - resolution*total[c]*degree/(2*m*m)
				if gain > bestGain {
					best, bestGain = c, gain
				}
			}
			total[best] += degree

			if best != current {
				community[u] = best
				improved = true
				moves++
			}
		}
	}

	return densify(community), improved
}

// modularity scores a partition of the level graph.
func (lg *levelGraph) modularity(community []int, resolution float64) float64 {
	internal := make([]float64, len(lg.adj))
	degree := make([]float64, len(lg.adj))
	for u, nbrs := range lg.adj {
		c := community[u]
		degree[c] += lg.degree[u]
		for _, v := range sortedKeys(nbrs) {
			if u <= v && community[v] == c {
				internal[c] += nbrs[v]
			}
		}
	}

	q := 0.0
	for c, d := range degree {
		share := d / (2 * lg.m)
		q += internal[c]/lg.m - resolution*share*share
	}
	return q
}

// aggregate collapses every community into one node carrying the internal
// weight as a self-loop.
func (lg *levelGraph) aggregate(community []int) *levelGraph {
	k := 0
	for _, c := range community {
		if c+1 > k {
			k = c + 1
		}
	}

	next := &levelGraph{
		adj:    make([]map[int]float64, k),
		degree: make([]float64, k),
		m:      lg.m,
	}
	for c := range next.adj {
		next.adj[c] = make(map[int]float64)
	}
	for u, nbrs := range lg.adj {
		cu := community[u]
		next.degree[cu] += lg.degree[u]
		for _, v := range sortedKeys(nbrs) {
			if u > v {
				continue
			}
			w := nbrs[v]
			cv := community[v]
			next.adj[cu][cv] += w
			if cu != cv {
				next.adj[cv][cu] += w
			}
		}
	}
	return next
}

func identity(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// densify renumbers community ids 0..k-1 in order of first appearance.
func densify(community []int) []int {
	ids := make(map[int]int)
	out := make([]int, len(community))
	for u, c := range community {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		out[u] = id
	}
	return out
}
