package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.MembersTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "followgraph_members_total",
			Help: "Number of population members in the roster",
		},
	)

	r.EdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "followgraph_edges_total",
			Help: "Number of directed follow edges inside the population",
		},
	)

	r.UnresolvedAliasesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "followgraph_unresolved_aliases_total",
			Help: "Following rows dropped during edge aggregation",
		},
		[]string{"kind"},
	)
}

func (r *Registry) initCommunityMetrics() {
	r.CommunityGroups = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "followgraph_community_groups",
			Help: "Number of communities found by each algorithm",
		},
		[]string{"algorithm"},
	)

	r.Modularity = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "followgraph_modularity",
			Help: "Unweighted modularity of each algorithm's partition",
		},
		[]string{"algorithm"},
	)

	r.AlgorithmDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "followgraph_algorithm_duration_seconds",
			Help:    "Community detection duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)
}
