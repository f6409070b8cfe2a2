// Package pipeline runs the follow-graph stages over the artifacts in one
// output directory. Every stage reads its inputs from disk and writes its
// outputs back, so stages can run one at a time or as a whole run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/cluso-followgraph/pkg/config"
	"github.com/dd0wney/cluso-followgraph/pkg/logging"
	"github.com/dd0wney/cluso-followgraph/pkg/metrics"
	"github.com/dd0wney/cluso-followgraph/pkg/report"
)

var pipelineTracer = otel.Tracer("followgraph.pipeline")

// Stage names, in run order.
const (
	StageResolve     = "resolve"
	StageEdges       = "edges"
	StageMatrix      = "matrix"
	StageCommunities = "communities"
	StageSummary     = "summary"
)

// Stages lists every stage in run order.
var Stages = []string{StageResolve, StageEdges, StageMatrix, StageCommunities, StageSummary}

// Runner executes stages for one configuration.
type Runner struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	runID   string
}

// Option configures a Runner.
type Option func(*Runner)

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// WithMetrics records into the given registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(r *Runner) { r.metrics = reg }
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(cfg *config.Config, logger logging.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	r := &Runner{cfg: cfg, runID: uuid.NewString()}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewRegistry()
	}
	r.logger = logger.With(logging.RunID(r.runID))
	return r
}

// RunID identifies this runner's run.
func (r *Runner) RunID() string {
	return r.runID
}

// Metrics returns the registry the runner records into.
func (r *Runner) Metrics() *metrics.Registry {
	return r.metrics
}

// Run executes every stage in order, then writes the optional run archive,
// SQLite snapshot and metrics textfile. The first failing stage aborts the run.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	ctx, span := pipelineTracer.Start(ctx, "pipeline.Run",
		trace.WithAttributes(attribute.String("run_id", r.runID)))
	defer span.End()

	r.logger.Info("run started", logging.Path(r.cfg.OutputDir))

	for _, name := range Stages[:len(Stages)-1] {
		if err := r.RunStage(ctx, name); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	summary, err := r.Summary(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := r.finish(ctx, summary); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	r.logger.Info("run complete", logging.Count(len(summary.Algorithms)))
	return summary, nil
}

// RunStage executes one named stage.
func (r *Runner) RunStage(ctx context.Context, name string) error {
	var err error
	switch name {
	case StageResolve:
		_, err = r.Resolve(ctx)
	case StageEdges:
		_, err = r.Edges(ctx)
	case StageMatrix:
		_, err = r.Matrix(ctx)
	case StageCommunities:
		_, err = r.Communities(ctx)
	case StageSummary:
		_, err = r.Summary(ctx)
	default:
		err = NewError(name).Kind(ErrUnknownStage).Cause(fmt.Errorf("no stage named %q", name)).Err()
	}
	return err
}

// stage wraps fn with a span, a timed log line and the stage metrics.
func (r *Runner) stage(ctx context.Context, name string, fn func(ctx context.Context, logger logging.Logger) error) error {
	ctx, span := pipelineTracer.Start(ctx, "pipeline."+name,
		trace.WithAttributes(attribute.String("run_id", r.runID)))
	defer span.End()

	logger := r.logger.With(logging.Stage(name))
	logger.Info("stage started")
	timer := logging.StartTimer(logger, "stage finished")

	if err := fn(ctx, logger); err != nil {
		elapsed := timer.EndError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.RecordStage(name, "error", elapsed)
		return err
	}

	r.metrics.RecordStage(name, "success", timer.End())
	return nil
}

// output returns the path of an artifact in the output directory.
func (r *Runner) output(name string) string {
	return filepath.Join(r.cfg.OutputDir, name)
}

func (r *Runner) finish(ctx context.Context, summary *report.Summary) error {
	if r.cfg.Archive.Path != "" {
		if err := r.writeArchive(); err != nil {
			return err
		}
	}
	if r.cfg.Store.SQLitePath != "" {
		if err := r.saveSnapshot(ctx, summary); err != nil {
			return err
		}
	}

	r.metrics.MarkRunComplete(time.Now())
	if r.cfg.Metrics.Textfile != "" {
		if err := r.metrics.WriteToTextfile(r.cfg.Metrics.Textfile); err != nil {
			return OutputError("metrics", "textfile", r.cfg.Metrics.Textfile, err)
		}
	}
	return nil
}
