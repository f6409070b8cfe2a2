// Package community runs the registered community detection strategies over
// the undirected core of a follow graph and brings every result to the same
// partition contract.
package community

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-followgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-followgraph/pkg/graph"
)

// Algorithm names.
const (
	Greedy           = "greedy"
	Louvain          = "louvain"
	Walktrap         = "walktrap"
	LabelPropagation = "label_propagation"
)

// DefaultAlgorithms is the algorithm list of a run unless configured otherwise.
var DefaultAlgorithms = []string{Greedy, Louvain, Walktrap}

// KnownAlgorithms lists every built-in algorithm in registry order.
var KnownAlgorithms = []string{Greedy, Louvain, Walktrap, LabelPropagation}

var (
	// ErrUnknownAlgorithm is returned when a name is not registered.
	ErrUnknownAlgorithm = errors.New("unknown community algorithm")
	// ErrDuplicateAlgorithm is returned when a name is registered or selected twice.
	ErrDuplicateAlgorithm = errors.New("duplicate community algorithm")
)

// Input is the read-only input shared by every algorithm of one run.
type Input struct {
	Names      []string        // canonical names by rank
	Graph      *graph.Directed // full population
	Core       []int           // non-isolated members, rank order
	Unweighted *graph.Undirected
	Weighted   *graph.Undirected // mutual 2.0, one-way 1.0
}

// NewInput projects the graph onto its core.
func NewInput(names []string, g *graph.Directed) *Input {
	core := g.Core()
	return &Input{
		Names:      names,
		Graph:      g,
		Core:       core,
		Unweighted: g.Project(core, graph.Unweighted),
		Weighted:   g.Project(core, graph.MutualDoubled),
	}
}

// Algorithm is a named community detection strategy. Detect must not modify
// the input; results are over the local nodes of in.Unweighted.
type Algorithm interface {
	Name() string
	Detect(ctx context.Context, in *Input) (*algorithms.CommunityDetectionResult, error)
}

// WeightedScorer is implemented by strategies that optimize modularity on the
// weighted core. Their partitions carry the weighted Q, which reports use in
// place of the unweighted one.
type WeightedScorer interface {
	ScoresWeighted() bool
}

// Options parameterises the built-in strategies.
type Options struct {
	Seed              uint64
	WalktrapSteps     int
	LouvainResolution float64
	LouvainThreshold  float64
	MaxIterations     int // label propagation
}

// DefaultOptions returns the built-in parameters.
func DefaultOptions() Options {
	louvain := algorithms.DefaultLouvainOptions()
	return Options{
		Seed:              louvain.Seed,
		WalktrapSteps:     algorithms.DefaultWalktrapSteps,
		LouvainResolution: louvain.Resolution,
		LouvainThreshold:  louvain.Threshold,
		MaxIterations:     100,
	}
}

type greedyStrategy struct{}

func (greedyStrategy) Name() string { return Greedy }

func (greedyStrategy) Detect(ctx context.Context, in *Input) (*algorithms.CommunityDetectionResult, error) {
	return algorithms.GreedyModularity(in.Unweighted), ctx.Err()
}

type louvainStrategy struct {
	opts algorithms.LouvainOptions
}

func (louvainStrategy) Name() string { return Louvain }

func (s louvainStrategy) Detect(ctx context.Context, in *Input) (*algorithms.CommunityDetectionResult, error) {
	return algorithms.Louvain(in.Unweighted, s.opts), ctx.Err()
}

type walktrapStrategy struct {
	steps int
}

func (walktrapStrategy) Name() string { return Walktrap }

func (walktrapStrategy) ScoresWeighted() bool { return true }

func (s walktrapStrategy) Detect(ctx context.Context, in *Input) (*algorithms.CommunityDetectionResult, error) {
	return algorithms.Walktrap(in.Weighted, s.steps), ctx.Err()
}

type labelPropagationStrategy struct {
	maxIterations int
}

func (labelPropagationStrategy) Name() string { return LabelPropagation }

func (s labelPropagationStrategy) Detect(ctx context.Context, in *Input) (*algorithms.CommunityDetectionResult, error) {
	return algorithms.LabelPropagation(in.Weighted, s.maxIterations), ctx.Err()
}

// Registry is an ordered set of named strategies.
type Registry struct {
	order  []Algorithm
	byName map[string]Algorithm
}

// NewRegistry registers the strategies in order.
func NewRegistry(algs ...Algorithm) (*Registry, error) {
	r := &Registry{byName: make(map[string]Algorithm, len(algs))}
	for _, a := range algs {
		if _, dup := r.byName[a.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAlgorithm, a.Name())
		}
		r.byName[a.Name()] = a
		r.order = append(r.order, a)
	}
	return r, nil
}

// BuiltinRegistry holds greedy, louvain, walktrap and label propagation.
func BuiltinRegistry(opts Options) *Registry {
	r, _ := NewRegistry(
		greedyStrategy{},
		louvainStrategy{opts: algorithms.LouvainOptions{
			Resolution: opts.LouvainResolution,
			Threshold:  opts.LouvainThreshold,
			Seed:       opts.Seed,
		}},
		walktrapStrategy{steps: opts.WalktrapSteps},
		labelPropagationStrategy{maxIterations: opts.MaxIterations},
	)
	return r
}

// Names lists registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, a := range r.order {
		names[i] = a.Name()
	}
	return names
}

// Select resolves names to strategies, keeping the given order.
func (r *Registry) Select(names []string) ([]Algorithm, error) {
	selected := make([]Algorithm, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		a, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAlgorithm, name)
		}
		seen[name] = true
		selected = append(selected, a)
	}
	return selected, nil
}
