package community

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-followgraph/pkg/logging"
)

var communityTracer = otel.Tracer("followgraph.community")

// Engine runs a fixed list of strategies over one input.
type Engine struct {
	algorithms []Algorithm
	logger     logging.Logger
}

// Result holds one partition per strategy, in strategy order, and the
// isolated members shared by all of them.
type Result struct {
	Partitions []*Partition `json:"algorithms"`
	ZeroDegree []string     `json:"zero_degree"`
}

// NewEngine creates an engine over the given strategies.
func NewEngine(algs []Algorithm, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{algorithms: algs, logger: logger}
}

// Run executes every strategy concurrently. Strategies only read the input;
// each writes its own slot of the result.
func (e *Engine) Run(ctx context.Context, in *Input) (*Result, error) {
	ctx, span := communityTracer.Start(ctx, "community.Engine.Run",
		trace.WithAttributes(
			attribute.Int("population", len(in.Names)),
			attribute.Int("core_size", len(in.Core)),
			attribute.Int("core_edges", in.Unweighted.EdgeCount()),
		),
	)
	defer span.End()

	if in.Unweighted.EdgeCount() == 0 {
		span.AddEvent("no_edges")
	}

	partitions := make([]*Partition, len(e.algorithms))
	g, gCtx := errgroup.WithContext(ctx)

	for i, alg := range e.algorithms {
		g.Go(func() error {
			p, err := e.detect(gCtx, alg, in)
			if err != nil {
				return err
			}
			partitions[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	isolated := in.Graph.Isolated()
	zeroDegree := make([]string, len(isolated))
	for i, v := range isolated {
		zeroDegree[i] = in.Names[v]
	}

	return &Result{Partitions: partitions, ZeroDegree: zeroDegree}, nil
}

func (e *Engine) detect(ctx context.Context, alg Algorithm, in *Input) (*Partition, error) {
	ctx, span := communityTracer.Start(ctx, "community."+alg.Name())
	defer span.End()

	timer := logging.StartTimer(e.logger, "community detection", logging.Algorithm(alg.Name()))

	raw, err := alg.Detect(ctx, in)
	if err != nil {
		timer.EndError(err)
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", alg.Name(), err)
	}

	p := postProcess(alg, in, raw)
	p.Elapsed = timer.End(logging.Count(len(p.Communities)), logging.Float64("modularity_q", p.ReportedQ()))

	span.SetAttributes(
		attribute.Int("group_count", len(p.Communities)),
		attribute.Float64("modularity_q", p.ReportedQ()),
	)
	return p, nil
}
