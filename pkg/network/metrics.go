package network

import (
	"github.com/dd0wney/cluso-followgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-followgraph/pkg/edges"
	"github.com/dd0wney/cluso-followgraph/pkg/graph"
	"github.com/dd0wney/cluso-followgraph/pkg/identity"
)

// Record holds the metrics of one member.
type Record struct {
	Name              string  `json:"name"`
	Rank              int     `json:"rank"`
	OriginalRank      int     `json:"original_rank"`
	InDegree          int     `json:"in_degree"`
	OutDegree         int     `json:"out_degree"`
	Mutual            int     `json:"mutual"`
	Influence         float64 `json:"influence_score"`
	Betweenness       float64 `json:"betweenness_centrality"`
	PageRank          float64 `json:"pagerank"`
	DistinctFollowing int     `json:"distinct_following"`
	ProfileURL        string  `json:"profile_url,omitempty"`
	Category          string  `json:"category,omitempty"`
	FollowerCount     int64   `json:"followers"`
}

// Global holds run-level graph metrics over the whole population.
type Global struct {
	Population        int     `json:"population"`
	Edges             int     `json:"edges"`
	Density           float64 `json:"density"`
	Reciprocity       float64 `json:"reciprocity"`
	Transitivity      float64 `json:"transitivity"`
	ZeroDegree        int     `json:"zero_degree"`
	AverageClustering float64 `json:"average_clustering"`
	WeakComponents    int     `json:"weak_components"`
}

// Result is everything the matrix stage produces.
type Result struct {
	Graph      *graph.Directed
	Matrices   *Matrices
	Records    []Record
	Global     Global
	ZeroDegree []string // rank order
}

// Compute builds matrices and metrics for the roster. distinct maps canonical
// names to distinct_following; members missing from it score 0.
func Compute(roster *identity.Roster, edgeList []edges.Edge, distinct map[string]int) (*Result, error) {
	n := roster.Size()
	if n <= 1 {
		return nil, ErrPopulationTooSmall
	}

	g, err := BuildGraph(roster, edgeList)
	if err != nil {
		return nil, err
	}
	matrices := BuildMatrices(roster, g)

	betweenness := algorithms.BetweennessCentrality(g)
	pagerank := algorithms.PageRank(g, algorithms.DefaultPageRankOptions())

	records := make([]Record, n)
	for i, m := range roster.Members() {
		mutual := 0
		for _, cell := range matrices.Reciprocity[i] {
			if cell == 2 {
				mutual++
			}
		}

		records[i] = Record{
			Name:              m.CanonicalName,
			Rank:              m.Rank,
			OriginalRank:      m.OriginalRank(),
			InDegree:          g.InDegree(i),
			OutDegree:         g.OutDegree(i),
			Mutual:            mutual,
			Influence:         InfluenceScore(g.InDegree(i), n),
			Betweenness:       betweenness[i],
			PageRank:          pagerank.Scores[i],
			DistinctFollowing: distinct[m.CanonicalName],
			ProfileURL:        m.ProfileURL,
			Category:          m.Category,
			FollowerCount:     m.FollowerCount,
		}
	}

	isolated := g.Isolated()
	zeroDegree := make([]string, len(isolated))
	for i, v := range isolated {
		zeroDegree[i] = roster.Member(v).CanonicalName
	}

	return &Result{
		Graph:      g,
		Matrices:   matrices,
		Records:    records,
		Global:     GlobalMetrics(g),
		ZeroDegree: zeroDegree,
	}, nil
}

// InfluenceScore is in-degree as a percentage of the other members.
func InfluenceScore(inDegree, population int) float64 {
	return float64(inDegree) / float64(population-1) * 100
}

// GlobalMetrics computes the run-level metrics. Isolated members stay in
// every denominator.
func GlobalMetrics(g *graph.Directed) Global {
	n := g.NodeCount()
	m := g.EdgeCount()

	global := Global{
		Population:        n,
		Edges:             m,
		Transitivity:      algorithms.Transitivity(g),
		ZeroDegree:        len(g.Isolated()),
		AverageClustering: algorithms.AverageClustering(g),
	}

	if n > 1 {
		global.Density = float64(m) / float64(n*(n-1))
	}

	if m > 0 {
		reciprocated := 0
		for u := 0; u < n; u++ {
			for _, v := range g.Out(u) {
				if g.HasEdge(v, u) {
					reciprocated++
				}
			}
		}
		global.Reciprocity = float64(reciprocated) / float64(m)
	}

	for _, c := range algorithms.WeakComponents(g) {
		if len(c) > 1 {
			global.WeakComponents++
		}
	}

	return global
}

// MostInfluential returns the names of the k members with the highest
// PageRank, ties broken by rank.
func (r *Result) MostInfluential(k int) []string {
	scores := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		scores[i] = rec.PageRank
	}

	top := algorithms.TopNodes(scores, k)
	names := make([]string, len(top))
	for i, t := range top {
		names[i] = r.Records[t.Node].Name
	}
	return names
}
