package network

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dd0wney/cluso-followgraph/pkg/edges"
	"github.com/dd0wney/cluso-followgraph/pkg/identity"
)

// setupNetworkTestRoster builds a roster whose display names double as aliases.
func setupNetworkTestRoster(t *testing.T, names ...string) *identity.Roster {
	t.Helper()

	rows := make([]identity.Row, len(names))
	for i, name := range names {
		rows[i] = identity.Row{DisplayName: name, AliasCell: name}
	}
	roster, _ := identity.BuildRoster(rows, nil)
	if roster.Size() != len(names) {
		t.Fatalf("Expected %d members, got %d", len(names), roster.Size())
	}
	return roster
}

func TestCompute_ThreeMemberScenario(t *testing.T) {
	roster := setupNetworkTestRoster(t, "A", "B", "C")
	edgeList := []edges.Edge{{"A", "B"}, {"B", "A"}, {"B", "C"}}

	result, err := Compute(roster, edgeList, nil)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	adjacency := Matrix{{0, 1, 0}, {1, 0, 1}, {0, 0, 0}}
	reciprocity := Matrix{{0, 2, 0}, {2, 0, 1}, {0, 1, 0}}
	for i := range adjacency {
		for j := range adjacency[i] {
			if result.Matrices.Adjacency[i][j] != adjacency[i][j] {
				t.Errorf("Adjacency[%d][%d] = %d, want %d", i, j, result.Matrices.Adjacency[i][j], adjacency[i][j])
			}
			if result.Matrices.Reciprocity[i][j] != reciprocity[i][j] {
				t.Errorf("Reciprocity[%d][%d] = %d, want %d", i, j, result.Matrices.Reciprocity[i][j], reciprocity[i][j])
			}
		}
	}

	wantMutual := []int{1, 1, 0}
	for i, r := range result.Records {
		if r.InDegree != 1 {
			t.Errorf("%s: expected in_degree 1, got %d", r.Name, r.InDegree)
		}
		if r.Mutual != wantMutual[i] {
			t.Errorf("%s: expected mutual %d, got %d", r.Name, wantMutual[i], r.Mutual)
		}
		if r.Influence != 50 {
			t.Errorf("%s: expected influence 50, got %f", r.Name, r.Influence)
		}
	}

	// B relays A->C, the only one of 2 ordered pairs it can lie between
	if result.Records[1].Betweenness != 0.5 {
		t.Errorf("Expected B betweenness 0.5, got %f", result.Records[1].Betweenness)
	}
	if len(result.ZeroDegree) != 0 {
		t.Errorf("Expected no isolated members, got %v", result.ZeroDegree)
	}
	if result.Global.WeakComponents != 1 {
		t.Errorf("Expected 1 weak component, got %d", result.Global.WeakComponents)
	}
}

func TestCompute_IsolatedMember(t *testing.T) {
	roster := setupNetworkTestRoster(t, "A", "B", "C", "D")
	edgeList := []edges.Edge{{"A", "B"}, {"B", "A"}, {"B", "C"}}

	result, err := Compute(roster, edgeList, map[string]int{"D": 12})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	d := result.Records[3]
	if d.Betweenness != 0 || d.InDegree != 0 || d.OutDegree != 0 {
		t.Errorf("Expected D to score 0 everywhere, got %+v", d)
	}
	if d.DistinctFollowing != 12 {
		t.Errorf("Expected D distinct_following 12, got %d", d.DistinctFollowing)
	}
	if len(result.ZeroDegree) != 1 || result.ZeroDegree[0] != "D" {
		t.Errorf("Expected zero-degree [D], got %v", result.ZeroDegree)
	}

	// Isolated members stay in the denominators
	if result.Global.Population != 4 || result.Global.ZeroDegree != 1 {
		t.Errorf("Unexpected global counts: %+v", result.Global)
	}
	if want := 3.0 / 12.0; result.Global.Density != want {
		t.Errorf("Expected density %f, got %f", want, result.Global.Density)
	}
	if want := 2.0 / 3.0; result.Global.Reciprocity != want {
		t.Errorf("Expected reciprocity %f, got %f", want, result.Global.Reciprocity)
	}
}

func TestCompute_PopulationTooSmall(t *testing.T) {
	roster := setupNetworkTestRoster(t, "Solo")

	_, err := Compute(roster, nil, nil)
	if !errors.Is(err, ErrPopulationTooSmall) {
		t.Errorf("Expected ErrPopulationTooSmall, got %v", err)
	}
}

func TestCompute_UnknownMember(t *testing.T) {
	roster := setupNetworkTestRoster(t, "A", "B")

	_, err := Compute(roster, []edges.Edge{{"A", "Z"}}, nil)
	if !errors.Is(err, ErrUnknownMember) {
		t.Errorf("Expected ErrUnknownMember, got %v", err)
	}
}

func TestCompute_NoEdges(t *testing.T) {
	roster := setupNetworkTestRoster(t, "A", "B", "C")

	result, err := Compute(roster, nil, nil)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	g := result.Global
	if g.Density != 0 || g.Reciprocity != 0 || g.Transitivity != 0 || g.AverageClustering != 0 {
		t.Errorf("Expected zero global metrics, got %+v", g)
	}
	if len(result.ZeroDegree) != 3 || g.WeakComponents != 0 {
		t.Errorf("Expected all members isolated, got %v (%d components)", result.ZeroDegree, g.WeakComponents)
	}
}

func TestMatrix_GraphRoundTrip(t *testing.T) {
	roster := setupNetworkTestRoster(t, "A", "B", "C")
	g, err := BuildGraph(roster, []edges.Edge{{"C", "A"}, {"A", "B"}})
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	back := BuildMatrices(roster, g).Adjacency.Graph()

	if back.EdgeCount() != 2 || !back.HasEdge(2, 0) || !back.HasEdge(0, 1) {
		t.Errorf("Round trip lost edges: %d edges", back.EdgeCount())
	}
}

func TestInfluenceScore(t *testing.T) {
	tests := []struct {
		inDegree, population int
		want                 float64
	}{
		{0, 10, 0},
		{9, 10, 100},
		{3, 4, 100},
		{1, 5, 25},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.inDegree, tt.population), func(t *testing.T) {
			if got := InfluenceScore(tt.inDegree, tt.population); got != tt.want {
				t.Errorf("InfluenceScore = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestResult_MostInfluential(t *testing.T) {
	roster := setupNetworkTestRoster(t, "A", "B", "C", "D")
	edgeList := []edges.Edge{{"B", "A"}, {"C", "A"}, {"D", "A"}, {"A", "B"}}

	result, err := Compute(roster, edgeList, nil)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	top := result.MostInfluential(2)
	if len(top) != 2 || top[0] != roster.Member(0).CanonicalName || top[1] != roster.Member(1).CanonicalName {
		t.Errorf("Expected A then B, got %v", top)
	}
	if got := result.MostInfluential(10); len(got) != 4 {
		t.Errorf("Expected every member when k exceeds the population, got %v", got)
	}
	if got := result.MostInfluential(0); len(got) != 0 {
		t.Errorf("Expected no members for k=0, got %v", got)
	}
}
