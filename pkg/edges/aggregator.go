// Package edges turns per-member following lists into the deduplicated
// in-population edge set and per-member following statistics.
package edges

import (
	"sort"
	"time"

	"github.com/dd0wney/cluso-followgraph/pkg/identity"
	"github.com/dd0wney/cluso-followgraph/pkg/logging"
)

// FollowRow is one row of a following-list file.
type FollowRow struct {
	TargetAlias string
	ExternalID  string
	DisplayName string
}

// FollowingList is the content of one following-list file of one source account.
type FollowingList struct {
	SourceAlias string
	Origin      string // file path, for logging
	ObservedAt  time.Time
	Rows        []FollowRow
}

// Edge is a resolved directed relationship between two canonical members.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Aggregate holds the following statistics of one member across all of its accounts.
type Aggregate struct {
	CanonicalName string `json:"source"`
	// DistinctFollowing is the size of the union of followed external ids.
	DistinctFollowing int `json:"distinct_following"`
	// OriginFollowingCount is the raw row count, duplicates and
	// out-of-population targets included.
	OriginFollowingCount int `json:"origin_following"`
}

// Result is the output of one aggregation pass.
type Result struct {
	Edges      []Edge
	Aggregates []Aggregate
	// UnresolvedSources lists source aliases whose files were skipped.
	UnresolvedSources []string
	// OutOfPopulation counts rows whose target is not a member.
	OutOfPopulation int
	// SelfFollows counts rows dropped because source and target are the same member.
	SelfFollows int
	// DuplicateEdges counts in-population rows collapsed onto an existing edge.
	DuplicateEdges int
}

type memberStats struct {
	ids    map[string]struct{}
	origin int
}

// Build scans the following lists against the roster. Unknown sources are
// skipped with a warning; unknown targets only contribute to the statistics.
// Edges are returned sorted by (source rank, target rank).
func Build(roster *identity.Roster, lists []FollowingList, logger logging.Logger) *Result {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	n := roster.Size()
	stats := make(map[int]*memberStats)
	seen := make(map[[2]int]struct{})
	pairs := make([][2]int, 0)
	unresolved := make(map[string]struct{})
	result := &Result{}

	for _, list := range lists {
		src, ok := roster.Resolve(list.SourceAlias)
		if !ok {
			alias := identity.NormalizeAlias(list.SourceAlias)
			if _, dup := unresolved[alias]; !dup {
				unresolved[alias] = struct{}{}
				result.UnresolvedSources = append(result.UnresolvedSources, alias)
			}
			logger.Warn("following list source not in population, skipped",
				logging.Alias(alias), logging.Path(list.Origin))
			continue
		}

		st, ok := stats[src]
		if !ok {
			st = &memberStats{ids: make(map[string]struct{})}
			stats[src] = st
		}

		st.origin += len(list.Rows)
		for _, row := range list.Rows {
			if row.ExternalID != "" {
				st.ids[row.ExternalID] = struct{}{}
			}

			dst, ok := roster.Resolve(row.TargetAlias)
			if !ok {
				result.OutOfPopulation++
				logger.Debug("followee outside population",
					logging.Member(roster.Member(src).CanonicalName), logging.Alias(row.TargetAlias))
				continue
			}

			// Distinct accounts of one persona collapse; distinct personas stay.
			if dst == src {
				result.SelfFollows++
				continue
			}

			key := [2]int{src, dst}
			if _, dup := seen[key]; dup {
				result.DuplicateEdges++
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, key)
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	result.Edges = make([]Edge, len(pairs))
	for i, p := range pairs {
		result.Edges[i] = Edge{
			Source: roster.Member(p[0]).CanonicalName,
			Target: roster.Member(p[1]).CanonicalName,
		}
	}

	result.Aggregates = make([]Aggregate, 0, len(stats))
	for i := 0; i < n; i++ {
		st, ok := stats[i]
		if !ok {
			continue
		}
		result.Aggregates = append(result.Aggregates, Aggregate{
			CanonicalName:        roster.Member(i).CanonicalName,
			DistinctFollowing:    len(st.ids),
			OriginFollowingCount: st.origin,
		})
	}

	return result
}

// DistinctFollowingByName indexes aggregates by canonical name.
func DistinctFollowingByName(aggregates []Aggregate) map[string]int {
	out := make(map[string]int, len(aggregates))
	for _, a := range aggregates {
		out[a.CanonicalName] = a.DistinctFollowing
	}
	return out
}
