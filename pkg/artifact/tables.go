package artifact

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-followgraph/pkg/edges"
	"github.com/dd0wney/cluso-followgraph/pkg/network"
)

// WriteEdgeList writes source,target rows.
func WriteEdgeList(path string, edgeList []edges.Edge) error {
	rows := make([][]string, len(edgeList))
	for i, e := range edgeList {
		rows[i] = []string{e.Source, e.Target}
	}
	return writeCSV(path, []string{"source", "target"}, rows)
}

// ReadEdgeList reads a file written by WriteEdgeList.
func ReadEdgeList(path string) ([]edges.Edge, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols := indexColumns(header)
	src, dst := cols.find("source"), cols.find("target")
	if src < 0 || dst < 0 {
		return nil, fmt.Errorf("%w: %s: source and target columns are required", ErrMalformed, path)
	}

	out := make([]edges.Edge, 0, len(records))
	for _, rec := range records {
		out = append(out, edges.Edge{Source: cell(rec, src), Target: cell(rec, dst)})
	}
	return out, nil
}

// WriteAggregates writes the per-member following statistics.
func WriteAggregates(path string, aggregates []edges.Aggregate) error {
	rows := make([][]string, len(aggregates))
	for i, a := range aggregates {
		rows[i] = []string{a.CanonicalName, strconv.Itoa(a.DistinctFollowing), strconv.Itoa(a.OriginFollowingCount)}
	}
	return writeCSV(path, []string{"source", "distinct_following", "origin_following"}, rows)
}

// ReadAggregates reads a file written by WriteAggregates.
func ReadAggregates(path string) ([]edges.Aggregate, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols := indexColumns(header)
	nameCol := cols.find("source")
	distinctCol := cols.find("distinct_following")
	originCol := cols.find("origin_following")
	if nameCol < 0 || distinctCol < 0 {
		return nil, fmt.Errorf("%w: %s: source and distinct_following columns are required", ErrMalformed, path)
	}

	out := make([]edges.Aggregate, 0, len(records))
	for i, rec := range records {
		distinct, err := parseCount(cell(rec, distinctCol))
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrMalformed, path, i+2, err)
		}
		origin, err := parseCount(cell(rec, originCol))
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrMalformed, path, i+2, err)
		}
		out = append(out, edges.Aggregate{
			CanonicalName:        cell(rec, nameCol),
			DistinctFollowing:    int(distinct),
			OriginFollowingCount: int(origin),
		})
	}
	return out, nil
}

// WriteMatrix writes a square matrix labelled by names on both axes.
func WriteMatrix(path string, names []string, m network.Matrix) error {
	header := append([]string{""}, names...)
	rows := make([][]string, len(m))
	for i, row := range m {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, names[i])
		for _, v := range row {
			rec = append(rec, strconv.Itoa(v))
		}
		rows[i] = rec
	}
	return writeCSV(path, header, rows)
}

// ReadMatrix reads a file written by WriteMatrix. Row labels must match the
// column labels in order.
func ReadMatrix(path string) ([]string, network.Matrix, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	if len(header) == 0 {
		return nil, nil, fmt.Errorf("%w: %s: missing header", ErrMalformed, path)
	}

	names := header[1:]
	n := len(names)
	if len(records) != n {
		return nil, nil, fmt.Errorf("%w: %s: %d rows for %d columns", ErrMalformed, path, len(records), n)
	}

	m := make(network.Matrix, n)
	for i, rec := range records {
		if len(rec) != n+1 || cell(rec, 0) != names[i] {
			return nil, nil, fmt.Errorf("%w: %s: row %d does not match header", ErrMalformed, path, i+1)
		}
		m[i] = make([]int, n)
		for j := 0; j < n; j++ {
			v, err := strconv.Atoi(cell(rec, j+1))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: row %d: %v", ErrMalformed, path, i+1, err)
			}
			m[i][j] = v
		}
	}
	return names, m, nil
}

var metricsHeader = []string{
	"Original_Rank", "Person_Name", "In_Degree", "Out_Degree", "Mutual_Follow",
	"Network_Influence_Score", "Betweenness_Centrality", "PageRank",
	"distinct_following", "profile_url", "category", "followers",
}

// WriteMetricsReport writes one row per member in rank order.
func WriteMetricsReport(path string, records []network.Record) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			strconv.Itoa(r.OriginalRank),
			r.Name,
			strconv.Itoa(r.InDegree),
			strconv.Itoa(r.OutDegree),
			strconv.Itoa(r.Mutual),
			strconv.FormatFloat(r.Influence, 'f', 2, 64),
			strconv.FormatFloat(r.Betweenness, 'f', 6, 64),
			strconv.FormatFloat(r.PageRank, 'f', 6, 64),
			strconv.Itoa(r.DistinctFollowing),
			r.ProfileURL,
			r.Category,
			strconv.FormatInt(r.FollowerCount, 10),
		}
	}
	return writeCSV(path, metricsHeader, rows)
}

// ReadMetricsReport reads a file written by WriteMetricsReport. Scores come
// back at their written precision.
func ReadMetricsReport(path string) ([]network.Record, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	cols := indexColumns(header)
	pos := make([]int, len(metricsHeader))
	for i, h := range metricsHeader {
		if pos[i] = cols.find(strings.ToLower(h)); pos[i] < 0 {
			return nil, fmt.Errorf("%w: %s: missing column %s", ErrMalformed, path, h)
		}
	}

	out := make([]network.Record, 0, len(records))
	for i, rec := range records {
		r := network.Record{
			Rank:       i + 1,
			Name:       cell(rec, pos[1]),
			ProfileURL: cell(rec, pos[9]),
			Category:   cell(rec, pos[10]),
		}
		for c, dst := range map[int]*int{0: &r.OriginalRank, 2: &r.InDegree, 3: &r.OutDegree, 4: &r.Mutual} {
			if *dst, err = strconv.Atoi(cell(rec, pos[c])); err != nil {
				return nil, fmt.Errorf("%w: %s:%d: %s: %v", ErrMalformed, path, i+2, metricsHeader[c], err)
			}
		}
		for c, dst := range map[int]*float64{5: &r.Influence, 6: &r.Betweenness, 7: &r.PageRank} {
			if *dst, err = strconv.ParseFloat(cell(rec, pos[c]), 64); err != nil {
				return nil, fmt.Errorf("%w: %s:%d: %s: %v", ErrMalformed, path, i+2, metricsHeader[c], err)
			}
		}
		distinct, err := parseCount(cell(rec, pos[8]))
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: distinct_following: %v", ErrMalformed, path, i+2, err)
		}
		r.DistinctFollowing = int(distinct)
		if r.FollowerCount, err = parseCount(cell(rec, pos[11])); err != nil {
			return nil, fmt.Errorf("%w: %s:%d: followers: %v", ErrMalformed, path, i+2, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// WriteZeroDegree writes the isolated member names.
func WriteZeroDegree(path string, names []string) error {
	if names == nil {
		names = []string{}
	}
	return writeJSON(path, names)
}

// ReadZeroDegree reads a file written by WriteZeroDegree.
func ReadZeroDegree(path string) ([]string, error) {
	var names []string
	err := readJSON(path, &names)
	return names, err
}

// WriteGlobalStats writes the run-level metrics.
func WriteGlobalStats(path string, g network.Global) error {
	return writeJSON(path, g)
}

// ReadGlobalStats reads a file written by WriteGlobalStats.
func ReadGlobalStats(path string) (*network.Global, error) {
	var g network.Global
	if err := readJSON(path, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
