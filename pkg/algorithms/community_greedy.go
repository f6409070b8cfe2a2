package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-followgraph/pkg/graph"
)

// GreedyModularity performs agglomerative modularity maximisation
// (Clauset, Newman & Moore 2004). Starting from singletons it repeatedly
// merges the adjacent pair of communities with the largest gain
// ΔQ = W_ij/m - 2·a_i·a_j and stops once no merge improves Q. Ties go to the
// pair with the lowest indices; the lower index survives the merge.
func GreedyModularity(g *graph.Undirected) *CommunityDetectionResult {
	n := g.NodeCount()
	m := g.TotalWeight()

	membership := make([]int, n)
	for v := range membership {
		membership[v] = v
	}
	if m == 0 {
		return newResult(g, membership)
	}

	// between[i][j] is the total edge weight between communities i and j
	between := make([]map[int]float64, n)
	share := make([]float64, n)
	members := make([][]int, n)
	alive := make([]bool, n)

	for u := 0; u < n; u++ {
		between[u] = make(map[int]float64, len(g.Neighbors(u)))
		for _, v := range g.Neighbors(u) {
			between[u][v] = g.Weight(u, v)
		}
		share[u] = g.Strength(u) / (2 * m)
		members[u] = []int{u}
		alive[u] = true
	}

	for {
		bestI, bestJ := -1, -1
		bestGain := 0.0

		for i := 0; i < n; i++ {
			if !alive[i] {
				continue
			}
			for _, j := range sortedKeys(between[i]) {
				if j <= i {
					continue
				}
				gain := between[i][j]/m - 2*share[i]*share[j]
				if bestI < 0 || gain > bestGain {
					bestI, bestJ, bestGain = i, j, gain
				}
			}
		}

		if bestI < 0 || bestGain <= 0 {
			break
		}

		mergeInto(between, bestI, bestJ)
		share[bestI] += share[bestJ]
		members[bestI] = append(members[bestI], members[bestJ]...)
		members[bestJ] = nil
		alive[bestJ] = false
	}

	for c, nodes := range members {
		for _, v := range nodes {
			membership[v] = c
		}
	}
	return newResult(g, membership)
}

// mergeInto folds community j into community i in a symmetric weight map.
func mergeInto(between []map[int]float64, i, j int) {
	for k, w := range between[j] {
		delete(between[k], j)
		if k == i {
			continue
		}
		between[i][k] += w
		between[k][i] = between[i][k]
	}
	delete(between[i], j)
	between[j] = nil
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
