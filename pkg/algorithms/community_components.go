package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-followgraph/pkg/graph"
)

// WeakComponents finds the weakly connected components of the directed
// graph. Components are ordered by their lowest node, members ascending.
// Isolated nodes form their own components.
func WeakComponents(g *graph.Directed) [][]int {
	n := g.NodeCount()
	visited := make([]bool, n)
	components := make([][]int, 0)
	queue := make([]int, 0, n)

	// BFS to find each component
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		component := make([]int, 0)
		queue = append(queue[:0], start)
		visited[start] = true

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			component = append(component, v)

			for _, w := range g.Out(v) {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
			for _, w := range g.In(v) {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}

		sort.Ints(component)
		components = append(components, component)
	}

	return components
}
