// Package network builds the fixed-order adjacency and reciprocity matrices
// of a follow graph and derives per-member and global metrics from them.
package network

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-followgraph/pkg/edges"
	"github.com/dd0wney/cluso-followgraph/pkg/graph"
	"github.com/dd0wney/cluso-followgraph/pkg/identity"
)

var (
	// ErrPopulationTooSmall is returned when scores would divide by population-1 <= 0.
	ErrPopulationTooSmall = errors.New("population size must exceed 1")
	// ErrUnknownMember is returned when an edge names someone outside the roster.
	ErrUnknownMember = errors.New("edge endpoint is not a population member")
)

// Matrix is a square table indexed by member rank order.
type Matrix [][]int

// Matrices holds the adjacency and reciprocity matrices with their shared
// row and column labels.
type Matrices struct {
	Names       []string
	Adjacency   Matrix // 1 at (i,j) when i follows j
	Reciprocity Matrix // Adjacency + Adjacencyᵀ
}

// BuildGraph maps canonical-name edges onto roster indices.
func BuildGraph(roster *identity.Roster, edgeList []edges.Edge) (*graph.Directed, error) {
	g := graph.NewDirected(roster.Size())
	for _, e := range edgeList {
		src, ok := roster.Index(e.Source)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMember, e.Source)
		}
		dst, ok := roster.Index(e.Target)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMember, e.Target)
		}
		g.AddEdge(src, dst)
	}
	return g, nil
}

// BuildMatrices materialises both matrices from the graph.
func BuildMatrices(roster *identity.Roster, g *graph.Directed) *Matrices {
	n := g.NodeCount()
	adjacency := newMatrix(n)
	reciprocity := newMatrix(n)

	for i := 0; i < n; i++ {
		for _, j := range g.Out(i) {
			adjacency[i][j] = 1
			reciprocity[i][j]++
			reciprocity[j][i]++
		}
	}

	return &Matrices{
		Names:       roster.Names(),
		Adjacency:   adjacency,
		Reciprocity: reciprocity,
	}
}

// Graph rebuilds the directed graph an adjacency matrix describes.
func (m Matrix) Graph() *graph.Directed {
	g := graph.NewDirected(len(m))
	for i, row := range m {
		for j, cell := range row {
			if cell != 0 {
				g.AddEdge(i, j)
			}
		}
	}
	return g
}

func newMatrix(n int) Matrix {
	cells := make([]int, n*n)
	m := make(Matrix, n)
	for i := range m {
		m[i] = cells[i*n : (i+1)*n : (i+1)*n]
	}
	return m
}
