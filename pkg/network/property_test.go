package network

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-followgraph/pkg/edges"
	"github.com/dd0wney/cluso-followgraph/pkg/identity"
)

const propertyPopulation = 7

func propertyRoster() *identity.Roster {
	rows := make([]identity.Row, propertyPopulation)
	for i := range rows {
		rows[i] = identity.Row{DisplayName: fmt.Sprintf("m%d", i), AliasCell: fmt.Sprintf("m%d", i)}
	}
	roster, _ := identity.BuildRoster(rows, nil)
	return roster
}

func decodeEdges(codes []int) []edges.Edge {
	out := make([]edges.Edge, 0, len(codes))
	seen := make(map[int]bool)
	for _, c := range codes {
		src, dst := c/propertyPopulation, c%propertyPopulation
		if src == dst || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, edges.Edge{Source: fmt.Sprintf("m%d", src), Target: fmt.Sprintf("m%d", dst)})
	}
	return out
}

// TestMatrixInvariants uses property-based testing over random edge sets
func TestMatrixInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	roster := propertyRoster()
	edgeCodes := gen.SliceOf(gen.IntRange(0, propertyPopulation*propertyPopulation-1))

	properties.Property("adjacency cells match the edge set", prop.ForAll(
		func(codes []int) bool {
			edgeList := decodeEdges(codes)
			result, err := Compute(roster, edgeList, nil)
			if err != nil {
				return false
			}
			ones := 0
			for i, row := range result.Matrices.Adjacency {
				for j, cell := range row {
					if cell == 1 {
						ones++
						if !result.Graph.HasEdge(i, j) {
							return false
						}
					}
				}
			}
			return ones == len(edgeList)
		},
		edgeCodes,
	))

	properties.Property("reciprocity is adjacency plus its transpose", prop.ForAll(
		func(codes []int) bool {
			result, err := Compute(roster, decodeEdges(codes), nil)
			if err != nil {
				return false
			}
			a, r := result.Matrices.Adjacency, result.Matrices.Reciprocity
			for i := range a {
				for j := range a[i] {
					if r[i][j] != a[i][j]+a[j][i] || r[i][j] < 0 || r[i][j] > 2 {
						return false
					}
				}
			}
			return true
		},
		edgeCodes,
	))

	properties.Property("degree sums equal the edge count", prop.ForAll(
		func(codes []int) bool {
			edgeList := decodeEdges(codes)
			result, err := Compute(roster, edgeList, nil)
			if err != nil {
				return false
			}
			in, out := 0, 0
			for _, r := range result.Records {
				in += r.InDegree
				out += r.OutDegree
			}
			return in == len(edgeList) && out == len(edgeList)
		},
		edgeCodes,
	))

	properties.Property("recomputing is bit-identical", prop.ForAll(
		func(codes []int) bool {
			edgeList := decodeEdges(codes)
			first, err1 := Compute(roster, edgeList, nil)
			second, err2 := Compute(roster, edgeList, nil)
			if err1 != nil || err2 != nil {
				return false
			}
			return reflect.DeepEqual(first.Matrices, second.Matrices) &&
				reflect.DeepEqual(first.Records, second.Records) &&
				reflect.DeepEqual(first.Global, second.Global)
		},
		edgeCodes,
	))

	properties.TestingRun(t)
}
