package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/network"
)

func setupReportInputs(t *testing.T) (*network.Global, *community.Result) {
	t.Helper()

	global := &network.Global{Population: 5, Edges: 4, Density: 0.2, ZeroDegree: 1}
	result := &community.Result{
		Partitions: []*community.Partition{
			{
				Algorithm: community.Louvain,
				Communities: []community.Community{
					{Members: []string{"A", "B"}, Leader: "A", Size: 2},
					{Members: []string{"C", "D"}, Leader: "C", Size: 2},
				},
				ModularityQ: 0.12345678,
			},
			{
				Algorithm:   community.Greedy,
				Communities: []community.Community{{Members: []string{"A", "B", "C", "D"}, Leader: "B", Size: 4}},
				ModularityQ: 0,
			},
		},
		ZeroDegree: []string{"E"},
	}
	return global, result
}

func TestAssemble_FollowsOrder(t *testing.T) {
	global, result := setupReportInputs(t)

	summary, err := Assemble("run-1", global, result, []string{community.Greedy, community.Louvain})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if len(summary.Algorithms) != 2 || summary.Algorithms[0].Name != community.Greedy {
		t.Fatalf("Unexpected algorithm order: %+v", summary.Algorithms)
	}
	louvain := summary.Algorithms[1]
	if louvain.GroupCount != 2 || louvain.GroupSizes[0] != 2 || louvain.GroupSizes[1] != 2 {
		t.Errorf("Unexpected louvain summary: %+v", louvain)
	}
	if louvain.ModularityQ != 0.123457 {
		t.Errorf("Expected Q rounded to 0.123457, got %v", louvain.ModularityQ)
	}
	if summary.Global.Population != 5 || summary.ZeroDegree != 1 || summary.RunID != "run-1" {
		t.Errorf("Unexpected summary header: %+v", summary)
	}
}

func TestAssemble_MissingInputs(t *testing.T) {
	global, result := setupReportInputs(t)

	tests := []struct {
		name   string
		global *network.Global
		result *community.Result
		order  []string
	}{
		{"no global", nil, result, []string{community.Greedy}},
		{"no partitions", global, nil, []string{community.Greedy}},
		{"missing algorithm", global, result, []string{community.Walktrap}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble("run", tt.global, tt.result, tt.order)
			if !errors.Is(err, ErrInputMissing) {
				t.Errorf("Expected ErrInputMissing, got %v", err)
			}
		})
	}
}

func TestRound(t *testing.T) {
	if got := Round(0.1234565, 6); got != 0.123457 && got != 0.123456 {
		t.Errorf("Unexpected rounding: %v", got)
	}
	if got := Round(-0.0000004, 6); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
	if got := Round(2.5, 0); got != 3 {
		t.Errorf("Expected 3, got %v", got)
	}
}

func TestRender(t *testing.T) {
	global, result := setupReportInputs(t)
	summary, err := Assemble("run-42", global, result, []string{community.Greedy, community.Louvain})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	out := Render(summary)

	for _, want := range []string{"run-42", "greedy", "louvain", "0.123457", "2, 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected rendered summary to contain %q", want)
		}
	}
}

func TestAssemble_WeightedScoreReported(t *testing.T) {
	global, result := setupReportInputs(t)
	weighted := 0.4444444
	result.Partitions = append(result.Partitions, &community.Partition{
		Algorithm:           community.Walktrap,
		Communities:         []community.Community{{Members: []string{"A", "B", "C", "D"}, Leader: "A", Size: 4}},
		ModularityQ:         0.25,
		WeightedModularityQ: &weighted,
	})

	summary, err := Assemble("run-1", global, result, []string{community.Walktrap, community.Louvain})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if q := summary.Algorithms[0].ModularityQ; q != 0.444444 {
		t.Errorf("Expected walktrap to report its weighted Q 0.444444, got %v", q)
	}
	if q := summary.Algorithms[1].ModularityQ; q != 0.123457 {
		t.Errorf("Expected louvain to report its unweighted Q 0.123457, got %v", q)
	}
}
