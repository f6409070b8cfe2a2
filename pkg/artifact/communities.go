package artifact

import (
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/network"
	"github.com/dd0wney/cluso-followgraph/pkg/report"
)

const memberSeparator = " | "

// WriteCommunityMaster writes every uncapped partition and the shared
// zero-degree list.
func WriteCommunityMaster(path string, result *community.Result) error {
	return writeJSON(path, result)
}

// ReadCommunityMaster reads a file written by WriteCommunityMaster.
func ReadCommunityMaster(path string) (*community.Result, error) {
	var result community.Result
	if err := readJSON(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WriteGroupingReport writes the capped display groups of one partition
// followed by a zero-degree row when any member is isolated.
func WriteGroupingReport(path string, groups []community.DisplayGroup, zeroDegree []string) error {
	rows := make([][]string, 0, len(groups)+1)
	for _, g := range groups {
		rows = append(rows, []string{
			g.Label,
			strconv.Itoa(g.Size),
			g.Leader,
			strings.Join(g.Members, memberSeparator),
			strconv.FormatBool(g.Mixed),
		})
	}
	if len(zeroDegree) > 0 {
		rows = append(rows, []string{
			community.ZeroDegreeLabel,
			strconv.Itoa(len(zeroDegree)),
			zeroDegree[0],
			strings.Join(zeroDegree, memberSeparator),
			"false",
		})
	}
	return writeCSV(path, []string{"group", "member_count", "leader", "members", "mixed"}, rows)
}

// GraphNode is one core member in a graph export.
type GraphNode struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Group   string           `json:"group"`
	Metrics GraphNodeMetrics `json:"metrics"`
}

// GraphNodeMetrics is the metric subset carried by a graph export node.
type GraphNodeMetrics struct {
	InDegree          int `json:"in_degree"`
	OutDegree         int `json:"out_degree"`
	Mutual            int `json:"mutual"`
	DistinctFollowing int `json:"distinct_following"`
}

// GraphLink is one directed follow between core members.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // mutual or single
}

// GraphExport is the node/link data handed to the external visualiser.
type GraphExport struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// BuildGraphExport labels each core member with its display group and emits
// every follow between grouped members, typed by the reciprocity matrix.
func BuildGraphExport(groups []community.DisplayGroup, records []network.Record, m *network.Matrices) *GraphExport {
	label := make(map[string]string)
	for _, g := range groups {
		for _, member := range g.Members {
			label[member] = g.Label
		}
	}

	export := &GraphExport{Nodes: []GraphNode{}, Links: []GraphLink{}}
	for _, r := range records {
		group, ok := label[r.Name]
		if !ok {
			continue
		}
		export.Nodes = append(export.Nodes, GraphNode{
			ID:    r.Name,
			Name:  r.Name,
			Group: group,
			Metrics: GraphNodeMetrics{
				InDegree:          r.InDegree,
				OutDegree:         r.OutDegree,
				Mutual:            r.Mutual,
				DistinctFollowing: r.DistinctFollowing,
			},
		})
	}

	for i, row := range m.Adjacency {
		if _, ok := label[m.Names[i]]; !ok {
			continue
		}
		for j, v := range row {
			if v == 0 {
				continue
			}
			if _, ok := label[m.Names[j]]; !ok {
				continue
			}
			kind := "single"
			if m.Reciprocity[i][j] == 2 {
				kind = "mutual"
			}
			export.Links = append(export.Links, GraphLink{Source: m.Names[i], Target: m.Names[j], Type: kind})
		}
	}
	return export
}

// WriteGraphExport writes one algorithm's graph export.
func WriteGraphExport(path string, export *GraphExport) error {
	return writeJSON(path, export)
}

// WriteSummary writes the run summary.
func WriteSummary(path string, s *report.Summary) error {
	return writeJSON(path, s)
}

// ReadSummary reads a file written by WriteSummary.
func ReadSummary(path string) (*report.Summary, error) {
	var s report.Summary
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
