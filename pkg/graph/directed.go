// Package graph holds the index-based graphs the metric and community
// algorithms run on. Node i is the member of rank i+1; node order never
// changes after construction.
package graph

import "sort"

// Directed is a simple directed graph over a fixed node set.
// Self-loops and parallel edges are rejected.
type Directed struct {
	n     int
	out   [][]int
	in    [][]int
	adj   []bool // row-major n*n
	edges int
}

// NewDirected creates a graph with n isolated nodes.
func NewDirected(n int) *Directed {
	return &Directed{
		n:   n,
		out: make([][]int, n),
		in:  make([][]int, n),
		adj: make([]bool, n*n),
	}
}

// AddEdge inserts u -> v. It reports false for self-loops, duplicates and
// out-of-range endpoints.
func (g *Directed) AddEdge(u, v int) bool {
	if u == v || u < 0 || v < 0 || u >= g.n || v >= g.n {
		return false
	}
	if g.adj[u*g.n+v] {
		return false
	}
	g.adj[u*g.n+v] = true
	g.out[u] = insertSorted(g.out[u], v)
	g.in[v] = insertSorted(g.in[v], u)
	g.edges++
	return true
}

func insertSorted(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// NodeCount returns the number of nodes including isolated ones.
func (g *Directed) NodeCount() int { return g.n }

// EdgeCount returns the number of directed edges.
func (g *Directed) EdgeCount() int { return g.edges }

// HasEdge reports whether u -> v exists.
func (g *Directed) HasEdge(u, v int) bool {
	return g.adj[u*g.n+v]
}

// Out returns the successors of u in ascending order. Callers must not modify it.
func (g *Directed) Out(u int) []int { return g.out[u] }

// In returns the predecessors of u in ascending order. Callers must not modify it.
func (g *Directed) In(u int) []int { return g.in[u] }

// OutDegree returns the number of successors of u.
func (g *Directed) OutDegree(u int) int { return len(g.out[u]) }

// InDegree returns the number of predecessors of u.
func (g *Directed) InDegree(u int) int { return len(g.in[u]) }

// Degree returns in-degree plus out-degree.
func (g *Directed) Degree(u int) int { return len(g.out[u]) + len(g.in[u]) }

// Isolated returns the nodes with no incident edge, ascending.
func (g *Directed) Isolated() []int {
	var out []int
	for u := 0; u < g.n; u++ {
		if g.Degree(u) == 0 {
			out = append(out, u)
		}
	}
	return out
}

// Core returns the nodes with at least one incident edge, ascending.
func (g *Directed) Core() []int {
	var out []int
	for u := 0; u < g.n; u++ {
		if g.Degree(u) > 0 {
			out = append(out, u)
		}
	}
	return out
}

// Weighting selects the weight of an undirected edge {u,v} from the
// directed relationships between u and v.
type Weighting func(uv, vu bool) float64

// Unweighted gives every undirected edge weight 1.
func Unweighted(uv, vu bool) float64 { return 1.0 }

// MutualDoubled gives mutual relationships weight 2 and one-way ones weight 1.
func MutualDoubled(uv, vu bool) float64 {
	if uv && vu {
		return 2.0
	}
	return 1.0
}

// Project builds the undirected projection restricted to nodes, relabelled
// 0..len(nodes)-1 in the given order. An edge {a,b} exists when a->b or b->a.
func (g *Directed) Project(nodes []int, weight Weighting) *Undirected {
	u := NewUndirected(len(nodes))
	u.labels = append([]int(nil), nodes...)

	local := make(map[int]int, len(nodes))
	for i, v := range nodes {
		local[v] = i
	}

	for i, a := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			ab, ba := g.HasEdge(a, b), g.HasEdge(b, a)
			if ab || ba {
				u.AddEdge(i, local[b], weight(ab, ba))
			}
		}
	}
	return u
}
