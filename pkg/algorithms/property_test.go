package algorithms

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-followgraph/pkg/graph"
)

const propertyNodes = 8

// decodeFollows turns codes in [0, n²) into a directed graph, skipping
// self-loops and repeats.
func decodeFollows(codes []int) *graph.Directed {
	g := graph.NewDirected(propertyNodes)
	for _, c := range codes {
		g.AddEdge(c/propertyNodes, c%propertyNodes)
	}
	return g
}

func coversEveryNode(result *CommunityDetectionResult, n int) bool {
	seen := make([]int, n)
	for _, c := range result.Communities {
		if c.Size != len(c.Nodes) {
			return false
		}
		for _, v := range c.Nodes {
			seen[v]++
			if result.NodeCommunity[v] != c.ID {
				return false
			}
		}
	}
	for _, count := range seen {
		if count != 1 {
			return false
		}
	}
	return true
}

// TestAlgorithmInvariants uses property-based testing over random follow graphs
func TestAlgorithmInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	edgeCodes := gen.SliceOf(gen.IntRange(0, propertyNodes*propertyNodes-1))

	properties.Property("betweenness stays within [0,1]", prop.ForAll(
		func(codes []int) bool {
			for _, s := range BetweennessCentrality(decodeFollows(codes)) {
				if s < 0 || s > 1+epsilon {
					return false
				}
			}
			return true
		},
		edgeCodes,
	))

	properties.Property("pagerank sums to one", prop.ForAll(
		func(codes []int) bool {
			sum := 0.0
			for _, s := range PageRank(decodeFollows(codes), DefaultPageRankOptions()).Scores {
				sum += s
			}
			return math.Abs(sum-1) < 1e-6
		},
		edgeCodes,
	))

	properties.Property("clustering and transitivity stay within [0,1]", prop.ForAll(
		func(codes []int) bool {
			g := decodeFollows(codes)
			for _, c := range ClusteringCoefficient(g) {
				if c < 0 || c > 1+epsilon {
					return false
				}
			}
			tr := Transitivity(g)
			return tr >= 0 && tr <= 1+epsilon
		},
		edgeCodes,
	))

	properties.Property("partitions cover every core node once", prop.ForAll(
		func(codes []int) bool {
			d := decodeFollows(codes)
			core := d.Core()
			unweighted := d.Project(core, graph.Unweighted)
			weighted := d.Project(core, graph.MutualDoubled)

			results := []*CommunityDetectionResult{
				GreedyModularity(unweighted),
				Louvain(unweighted, DefaultLouvainOptions()),
				Walktrap(weighted, DefaultWalktrapSteps),
				LabelPropagation(weighted, 100),
			}
			for _, r := range results {
				if !coversEveryNode(r, len(core)) {
					return false
				}
				if r.Modularity < -0.5-epsilon || r.Modularity > 1+epsilon {
					return false
				}
			}
			return true
		},
		edgeCodes,
	))

	properties.Property("greedy never scores below singletons", prop.ForAll(
		func(codes []int) bool {
			d := decodeFollows(codes)
			core := d.Core()
			g := d.Project(core, graph.Unweighted)
			result := GreedyModularity(g)
			return result.Modularity >= UnweightedModularity(g, identity(len(core)))-epsilon
		},
		edgeCodes,
	))

	properties.Property("scoring a fixed partition ignores node labels", prop.ForAll(
		func(codes []int) bool {
			d := decodeFollows(codes)
			core := d.Core()
			forward := d.Project(core, graph.Unweighted)
			membership := GreedyModularity(forward).NodeCommunity

			reversed := make([]int, len(core))
			permuted := make([]int, len(core))
			for i := range core {
				reversed[i] = core[len(core)-1-i]
				permuted[i] = membership[len(core)-1-i]
			}
			backward := d.Project(reversed, graph.Unweighted)
			return approxEqual(UnweightedModularity(forward, membership), UnweightedModularity(backward, permuted))
		},
		edgeCodes,
	))

	properties.Property("louvain repeats exactly for the same rank order and seed", prop.ForAll(
		func(codes []int) bool {
			g := decodeFollows(codes)
			u := g.Project(g.Core(), graph.Unweighted)
			first := Louvain(u, DefaultLouvainOptions())
			second := Louvain(u, DefaultLouvainOptions())
			if first.Modularity != second.Modularity {
				return false
			}
			for v := range first.NodeCommunity {
				if first.NodeCommunity[v] != second.NodeCommunity[v] {
					return false
				}
			}
			return true
		},
		edgeCodes,
	))

	properties.TestingRun(t)
}
