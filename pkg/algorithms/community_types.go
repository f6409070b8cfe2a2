package algorithms

import "github.com/dd0wney/cluso-followgraph/pkg/graph"

// Community represents a detected community over the local nodes of an
// undirected graph.
type Community struct {
	ID      int
	Nodes   []int // ascending
	Size    int
	Density float64 // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities        []*Community
	Modularity         float64 // Unweighted Newman modularity of the partition
	WeightedModularity float64 // Same partition scored with edge weights
	NodeCommunity      []int   // Node -> Community ID
}

// newResult relabels membership densely in order of each community's lowest
// node and scores the partition on g.
func newResult(g *graph.Undirected, membership []int) *CommunityDetectionResult {
	n := g.NodeCount()
	relabel := make(map[int]int)
	nodeCommunity := make([]int, n)
	communities := make([]*Community, 0)

	for v := 0; v < n; v++ {
		id, ok := relabel[membership[v]]
		if !ok {
			id = len(communities)
			relabel[membership[v]] = id
			communities = append(communities, &Community{ID: id})
		}
		nodeCommunity[v] = id
		communities[id].Nodes = append(communities[id].Nodes, v)
	}

	for _, c := range communities {
		c.Size = len(c.Nodes)
		c.Density = internalDensity(g, c.Nodes, nodeCommunity)
	}

	return &CommunityDetectionResult{
		Communities:        communities,
		Modularity:         UnweightedModularity(g, nodeCommunity),
		WeightedModularity: Modularity(g, nodeCommunity),
		NodeCommunity:      nodeCommunity,
	}
}

func internalDensity(g *graph.Undirected, nodes []int, nodeCommunity []int) float64 {
	size := len(nodes)
	if size < 2 {
		return 0.0
	}
	internal := 0
	for _, u := range nodes {
		for _, v := range g.Neighbors(u) {
			if u < v && nodeCommunity[u] == nodeCommunity[v] {
				internal++
			}
		}
	}
	return float64(internal) / float64(size*(size-1)/2)
}
