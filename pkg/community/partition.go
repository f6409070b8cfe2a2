package community

import (
	"sort"
	"time"

	"github.com/dd0wney/cluso-followgraph/pkg/algorithms"
)

// ZeroDegreeLabel labels the group of isolated members in reports.
const ZeroDegreeLabel = "zero-degree"

// DefaultDisplayCap is the number of display groups before collapsing.
const DefaultDisplayCap = 8

// Community is one post-processed community.
type Community struct {
	Members []string `json:"members"` // rank order
	Leader  string   `json:"leader"`
	Size    int      `json:"size"`

	// leader's global in-degree and rank, for merging display buckets
	leaderInDegree int
	leaderRank     int
}

// Partition is the uncapped, machine-readable output of one algorithm.
type Partition struct {
	Algorithm           string      `json:"algorithm"`
	Communities         []Community `json:"communities"` // largest first
	ModularityQ         float64     `json:"modularity_q"`
	WeightedModularityQ *float64    `json:"weighted_modularity_q,omitempty"` // set for WeightedScorer strategies

	// Elapsed is the detection wall time; not persisted.
	Elapsed time.Duration `json:"-"`
}

// GroupSizes lists community sizes in partition order.
func (p *Partition) GroupSizes() []int {
	sizes := make([]int, len(p.Communities))
	for i, c := range p.Communities {
		sizes[i] = c.Size
	}
	return sizes
}

// ReportedQ is the modularity the strategy optimized: the weighted score when
// it has one, the unweighted score otherwise.
func (p *Partition) ReportedQ() float64 {
	if p.WeightedModularityQ != nil {
		return *p.WeightedModularityQ
	}
	return p.ModularityQ
}

// postProcess maps a raw result back to member names, orders communities by
// size then lowest rank, and picks each leader by in-degree then rank.
func postProcess(alg Algorithm, in *Input, raw *algorithms.CommunityDetectionResult) *Partition {
	groups := make([][]int, 0, len(raw.Communities))
	for _, c := range raw.Communities {
		members := make([]int, len(c.Nodes))
		for i, local := range c.Nodes {
			members[i] = in.Unweighted.Label(local)
		}
		sort.Ints(members)
		groups = append(groups, members)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0] < groups[j][0]
	})

	p := &Partition{
		Algorithm:   alg.Name(),
		Communities: make([]Community, len(groups)),
		ModularityQ: raw.Modularity,
	}
	if s, ok := alg.(WeightedScorer); ok && s.ScoresWeighted() {
		weighted := raw.WeightedModularity
		p.WeightedModularityQ = &weighted
	}

	for i, members := range groups {
		leader := members[0]
		names := make([]string, len(members))
		for j, v := range members {
			names[j] = in.Names[v]
			if in.Graph.InDegree(v) > in.Graph.InDegree(leader) {
				leader = v
			}
		}
		p.Communities[i] = Community{
			Members: names,
			Leader:  in.Names[leader],
			Size:    len(members),

			leaderInDegree: in.Graph.InDegree(leader),
			leaderRank:     leader,
		}
	}
	return p
}

// DisplayGroup is one rendered group of a capped view.
type DisplayGroup struct {
	Label   string
	Members []string
	Leader  string
	Size    int
	Mixed   bool // several small communities collapsed together
}

// Display caps the partition for rendering. With at least limit
// communities the first limit-1 are shown and the rest collapse into one
// bucket led by its highest in-degree member, ties going to the better
// rank. Labels run A, B, ...
func Display(p *Partition, limit int) []DisplayGroup {
	if limit <= 0 {
		limit = DefaultDisplayCap
	}

	shown := len(p.Communities)
	if shown >= limit {
		shown = limit - 1
	}

	groups := make([]DisplayGroup, 0, limit)
	for i := 0; i < shown; i++ {
		c := p.Communities[i]
		groups = append(groups, DisplayGroup{
			Label:   GroupLabel(i),
			Members: c.Members,
			Leader:  c.Leader,
			Size:    c.Size,
		})
	}

	if rest := p.Communities[shown:]; len(rest) > 0 {
		bucket := DisplayGroup{
			Label: GroupLabel(shown),
			Mixed: len(rest) > 1,
		}
		lead := rest[0]
		for _, c := range rest {
			bucket.Members = append(bucket.Members, c.Members...)
			bucket.Size += c.Size
			if c.leaderInDegree > lead.leaderInDegree ||
				(c.leaderInDegree == lead.leaderInDegree && c.leaderRank < lead.leaderRank) {
				lead = c
			}
		}
		bucket.Leader = lead.Leader
		groups = append(groups, bucket)
	}
	return groups
}

// GroupLabel returns A for 0, B for 1 and so on, continuing with AA after Z.
func GroupLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}
