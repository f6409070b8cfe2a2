package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-followgraph/pkg/graph"
)

const epsilon = 1e-9

// setupFollowTestGraph builds a directed graph of n nodes from follow pairs.
func setupFollowTestGraph(t *testing.T, n int, follows [][2]int) *graph.Directed {
	t.Helper()

	g := graph.NewDirected(n)
	for _, f := range follows {
		if !g.AddEdge(f[0], f[1]) {
			t.Fatalf("Failed to add edge %d->%d", f[0], f[1])
		}
	}
	return g
}

// mutual expands each pair into edges both ways.
func mutual(pairs ...[2]int) [][2]int {
	out := make([][2]int, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p, [2]int{p[1], p[0]})
	}
	return out
}

// setupBridgedTriangles returns two mutual triangles {0,1,2} and {3,4,5}
// joined by the one-way follow 2->3.
func setupBridgedTriangles(t *testing.T) *graph.Directed {
	t.Helper()

	follows := mutual([2]int{0, 1}, [2]int{0, 2}, [2]int{1, 2}, [2]int{3, 4}, [2]int{3, 5}, [2]int{4, 5})
	follows = append(follows, [2]int{2, 3})
	return setupFollowTestGraph(t, 6, follows)
}

func allNodes(n int) []int {
	nodes := make([]int, n)
	for i := range nodes {
		nodes[i] = i
	}
	return nodes
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func assertTwoTriangles(t *testing.T, result *CommunityDetectionResult) {
	t.Helper()

	if len(result.Communities) != 2 {
		t.Fatalf("Expected 2 communities, got %d", len(result.Communities))
	}
	want := [][]int{{0, 1, 2}, {3, 4, 5}}
	for i, c := range result.Communities {
		if len(c.Nodes) != len(want[i]) {
			t.Fatalf("Community %d: expected %v, got %v", i, want[i], c.Nodes)
		}
		for j := range c.Nodes {
			if c.Nodes[j] != want[i][j] {
				t.Errorf("Community %d: expected %v, got %v", i, want[i], c.Nodes)
				break
			}
		}
	}
}
