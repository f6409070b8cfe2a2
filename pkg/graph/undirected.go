package graph

// Undirected is a weighted undirected simple graph. Labels map local node
// indices back to the indices of the graph it was projected from.
type Undirected struct {
	n           int
	adj         [][]int
	w           []float64 // row-major n*n, symmetric
	strength    []float64
	totalWeight float64
	edges       int
	labels      []int
}

// NewUndirected creates n isolated nodes labelled with their own index.
func NewUndirected(n int) *Undirected {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}
	return &Undirected{
		n:        n,
		adj:      make([][]int, n),
		w:        make([]float64, n*n),
		strength: make([]float64, n),
		labels:   labels,
	}
}

// AddEdge inserts {u,v} with weight w. Existing edges and self-loops are ignored.
func (g *Undirected) AddEdge(u, v int, w float64) bool {
	if u == v || g.w[u*g.n+v] != 0 || w <= 0 {
		return false
	}
	g.w[u*g.n+v] = w
	g.w[v*g.n+u] = w
	g.adj[u] = insertSorted(g.adj[u], v)
	g.adj[v] = insertSorted(g.adj[v], u)
	g.strength[u] += w
	g.strength[v] += w
	g.totalWeight += w
	g.edges++
	return true
}

// NodeCount returns the number of nodes.
func (g *Undirected) NodeCount() int { return g.n }

// EdgeCount returns the number of undirected edges.
func (g *Undirected) EdgeCount() int { return g.edges }

// Neighbors returns the neighbors of u ascending. Callers must not modify it.
func (g *Undirected) Neighbors(u int) []int { return g.adj[u] }

// Weight returns the weight of {u,v}, 0 when absent.
func (g *Undirected) Weight(u, v int) float64 { return g.w[u*g.n+v] }

// Strength returns the weighted degree of u.
func (g *Undirected) Strength(u int) float64 { return g.strength[u] }

// TotalWeight returns the sum of edge weights (m in the modularity formula).
func (g *Undirected) TotalWeight() float64 { return g.totalWeight }

// Label returns the original index of local node u.
func (g *Undirected) Label(u int) int { return g.labels[u] }

// Unweighted returns a copy of g with every edge weight set to 1.
func (g *Undirected) Unweighted() *Undirected {
	c := NewUndirected(g.n)
	copy(c.labels, g.labels)
	for u := 0; u < g.n; u++ {
		for _, v := range g.adj[u] {
			if u < v {
				c.AddEdge(u, v, 1.0)
			}
		}
	}
	return c
}
