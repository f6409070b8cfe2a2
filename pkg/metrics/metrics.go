package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Unresolved alias kinds
const (
	KindUnresolvedSource = "unresolved_source"
	KindOutOfPopulation  = "out_of_population"
	KindSelfFollow       = "self_follow"
	KindDuplicate        = "duplicate"
)

// RecordStage records a pipeline stage run with its duration
func (r *Registry) RecordStage(stage, status string, duration time.Duration) {
	r.StageRunsTotal.WithLabelValues(stage, status).Inc()
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordUnresolved adds n dropped following rows of the given kind
func (r *Registry) RecordUnresolved(kind string, n int) {
	if n <= 0 {
		return
	}
	r.UnresolvedAliasesTotal.WithLabelValues(kind).Add(float64(n))
}

// SetGraphSize updates the population and edge gauges
func (r *Registry) SetGraphSize(members, edges int) {
	r.MembersTotal.Set(float64(members))
	r.EdgesTotal.Set(float64(edges))
}

// RecordPartition records one algorithm's result
func (r *Registry) RecordPartition(algorithm string, groups int, modularity float64, duration time.Duration) {
	r.CommunityGroups.WithLabelValues(algorithm).Set(float64(groups))
	r.Modularity.WithLabelValues(algorithm).Set(modularity)
	r.AlgorithmDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// MarkRunComplete stamps the completion time of a run
func (r *Registry) MarkRunComplete(at time.Time) {
	r.LastRunSeconds.Set(float64(at.Unix()))
}

// WriteToTextfile writes every metric in text exposition format, for
// collection by a node exporter's textfile collector.
func (r *Registry) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
