// Package report merges global graph metrics and per-algorithm partition
// statistics into the run summary.
package report

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/network"
)

// ErrInputMissing is returned when an upstream artifact is absent.
var ErrInputMissing = errors.New("report input missing")

// AlgorithmSummary is the per-algorithm part of the summary.
type AlgorithmSummary struct {
	Name        string  `json:"name"`
	GroupCount  int     `json:"group_count"`
	GroupSizes  []int   `json:"group_sizes"`
	ModularityQ float64 `json:"modularity_q"`
}

// Summary is the run summary.
type Summary struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Global      network.Global     `json:"global"`
	ZeroDegree  int                `json:"zero_degree_members"`
	Algorithms  []AlgorithmSummary `json:"algorithms"`
}

// Assemble merges global metrics with the partitions of the algorithms named
// in order. Nothing is recomputed; every named algorithm must have a partition.
func Assemble(runID string, global *network.Global, communities *community.Result, order []string) (*Summary, error) {
	if global == nil {
		return nil, fmt.Errorf("%w: global metrics", ErrInputMissing)
	}
	if communities == nil {
		return nil, fmt.Errorf("%w: community partitions", ErrInputMissing)
	}

	byName := make(map[string]*community.Partition, len(communities.Partitions))
	for _, p := range communities.Partitions {
		byName[p.Algorithm] = p
	}

	summary := &Summary{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Global:      *global,
		ZeroDegree:  len(communities.ZeroDegree),
		Algorithms:  make([]AlgorithmSummary, 0, len(order)),
	}

	for _, name := range order {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: partition for %s", ErrInputMissing, name)
		}
		summary.Algorithms = append(summary.Algorithms, AlgorithmSummary{
			Name:        name,
			GroupCount:  len(p.Communities),
			GroupSizes:  p.GroupSizes(),
			ModularityQ: Round(p.ReportedQ(), 6),
		})
	}

	return summary, nil
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
