package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Pipeline Metrics
	StageDuration  *prometheus.HistogramVec
	StageRunsTotal *prometheus.CounterVec
	LastRunSeconds prometheus.Gauge

	// Graph Metrics
	MembersTotal           prometheus.Gauge
	EdgesTotal             prometheus.Gauge
	UnresolvedAliasesTotal *prometheus.CounterVec

	// Community Metrics
	CommunityGroups   *prometheus.GaugeVec
	Modularity        *prometheus.GaugeVec
	AlgorithmDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initPipelineMetrics()
	r.initGraphMetrics()
	r.initCommunityMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
