package pipeline

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-followgraph/pkg/artifact"
	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/edges"
	"github.com/dd0wney/cluso-followgraph/pkg/identity"
	"github.com/dd0wney/cluso-followgraph/pkg/logging"
	"github.com/dd0wney/cluso-followgraph/pkg/metrics"
	"github.com/dd0wney/cluso-followgraph/pkg/network"
	"github.com/dd0wney/cluso-followgraph/pkg/report"
	"github.com/dd0wney/cluso-followgraph/pkg/validation"
)

// Resolve canonicalizes the master list and writes members.json.
func (r *Runner) Resolve(ctx context.Context) (*identity.Roster, error) {
	var roster *identity.Roster
	err := r.stage(ctx, StageResolve, func(ctx context.Context, logger logging.Logger) error {
		rows, err := artifact.ReadMasterList(r.cfg.MasterList)
		if err != nil {
			return InputError(StageResolve, "master list", r.cfg.MasterList, err)
		}

		for _, row := range rows {
			if identity.CanonicalName(row.DisplayName) == "" {
				continue // skipped and logged by the roster
			}
			if err := validation.ValidateRow(row); err != nil {
				logger.Warn("master row failed validation", logging.String("display_name", row.DisplayName), logging.Error(err))
			}
		}

		var collisions []identity.Collision
		roster, collisions = identity.BuildRoster(rows, logger)

		if want := r.cfg.PopulationSize; want > 0 && want != roster.Size() {
			logger.Warn("population size differs from configuration",
				logging.Int("configured", want), logging.Int("loaded", roster.Size()))
		}

		path := r.output(artifact.MembersFile)
		if err := artifact.WriteMembers(path, roster.Members()); err != nil {
			return OutputError(StageResolve, "members", path, err)
		}

		logger.Info("roster built",
			logging.Count(roster.Size()),
			logging.Int("rows", len(rows)),
			logging.Int("alias_collisions", len(collisions)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return roster, nil
}

// Edges aggregates the following lists into the edge list and the per-member
// following totals.
func (r *Runner) Edges(ctx context.Context) (*edges.Result, error) {
	var result *edges.Result
	err := r.stage(ctx, StageEdges, func(ctx context.Context, logger logging.Logger) error {
		roster, err := r.readRoster(StageEdges)
		if err != nil {
			return err
		}

		dir := r.cfg.FollowingDirOrDefault()
		lists, err := artifact.ReadFollowingDir(dir, r.cfg.FollowingSuffix)
		if err != nil {
			return InputError(StageEdges, "following lists", dir, err)
		}
		if len(lists) == 0 {
			logger.Warn("no following lists found", logging.Path(dir), logging.String("suffix", r.cfg.FollowingSuffix))
		}

		result = edges.Build(roster, lists, logger)

		path := r.output(artifact.EdgeListFile)
		if err := artifact.WriteEdgeList(path, result.Edges); err != nil {
			return OutputError(StageEdges, "edge list", path, err)
		}
		path = r.output(artifact.TotalFollowingFile)
		if err := artifact.WriteAggregates(path, result.Aggregates); err != nil {
			return OutputError(StageEdges, "following totals", path, err)
		}

		r.metrics.RecordUnresolved(metrics.KindUnresolvedSource, len(result.UnresolvedSources))
		r.metrics.RecordUnresolved(metrics.KindOutOfPopulation, result.OutOfPopulation)
		r.metrics.RecordUnresolved(metrics.KindSelfFollow, result.SelfFollows)
		r.metrics.RecordUnresolved(metrics.KindDuplicate, result.DuplicateEdges)

		logger.Info("edges aggregated",
			logging.Count(len(result.Edges)),
			logging.Int("files", len(lists)),
			logging.Int("unresolved_sources", len(result.UnresolvedSources)),
			logging.Int("out_of_population", result.OutOfPopulation),
			logging.Int("self_follows", result.SelfFollows),
			logging.Int("duplicates", result.DuplicateEdges))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Matrix builds the adjacency and reciprocity matrices and the metrics
// report. A population of one member or fewer is a configuration error.
func (r *Runner) Matrix(ctx context.Context) (*network.Result, error) {
	var result *network.Result
	err := r.stage(ctx, StageMatrix, func(ctx context.Context, logger logging.Logger) error {
		roster, err := r.readRoster(StageMatrix)
		if err != nil {
			return err
		}

		path := r.output(artifact.EdgeListFile)
		edgeList, err := artifact.ReadEdgeList(path)
		if err != nil {
			return InputError(StageMatrix, "edge list", path, err)
		}

		path = r.output(artifact.TotalFollowingFile)
		aggregates, err := artifact.ReadAggregates(path)
		if err != nil {
			return InputError(StageMatrix, "following totals", path, err)
		}

		result, err = network.Compute(roster, edgeList, edges.DistinctFollowingByName(aggregates))
		if err != nil {
			return NewError(StageMatrix).Entity("population").
				Context(fmt.Sprintf("%d members", roster.Size())).Cause(err).Err()
		}

		m := result.Matrices
		writes := []struct {
			entity string
			file   string
			write  func(path string) error
		}{
			{"adjacency matrix", artifact.AdjacencyFile, func(p string) error { return artifact.WriteMatrix(p, m.Names, m.Adjacency) }},
			{"reciprocity matrix", artifact.ReciprocityFile, func(p string) error { return artifact.WriteMatrix(p, m.Names, m.Reciprocity) }},
			{"metrics report", artifact.MetricsReportFile, func(p string) error { return artifact.WriteMetricsReport(p, result.Records) }},
			{"zero-degree list", artifact.ZeroDegreeFile, func(p string) error { return artifact.WriteZeroDegree(p, result.ZeroDegree) }},
			{"global stats", artifact.GlobalStatsFile, func(p string) error { return artifact.WriteGlobalStats(p, result.Global) }},
		}
		for _, w := range writes {
			path := r.output(w.file)
			if err := w.write(path); err != nil {
				return OutputError(StageMatrix, w.entity, path, err)
			}
		}

		r.metrics.SetGraphSize(roster.Size(), len(edgeList))

		logger.Info("metrics computed",
			logging.Count(roster.Size()),
			logging.Int("edges", result.Global.Edges),
			logging.Float64("density", result.Global.Density),
			logging.Float64("reciprocity", result.Global.Reciprocity),
			logging.Int("zero_degree", len(result.ZeroDegree)),
			logging.Any("most_influential", result.MostInfluential(3)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Communities runs the configured algorithms and writes the community master
// file plus one grouping report and graph export per algorithm.
func (r *Runner) Communities(ctx context.Context) (*community.Result, error) {
	var result *community.Result
	err := r.stage(ctx, StageCommunities, func(ctx context.Context, logger logging.Logger) error {
		roster, err := r.readRoster(StageCommunities)
		if err != nil {
			return err
		}
		matrices, err := r.readMatrices(roster)
		if err != nil {
			return err
		}

		path := r.output(artifact.MetricsReportFile)
		records, err := artifact.ReadMetricsReport(path)
		if err != nil {
			return InputError(StageCommunities, "metrics report", path, err)
		}

		registry := community.BuiltinRegistry(r.cfg.CommunityOptions())
		algs, err := registry.Select(r.cfg.Algorithms)
		if err != nil {
			return NewError(StageCommunities).Entity("algorithms").Cause(err).Err()
		}

		in := community.NewInput(matrices.Names, matrices.Adjacency.Graph())
		result, err = community.NewEngine(algs, logger).Run(ctx, in)
		if err != nil {
			return NewError(StageCommunities).Entity("detection").Cause(err).Err()
		}

		path = r.output(artifact.CommunityMasterFile)
		if err := artifact.WriteCommunityMaster(path, result); err != nil {
			return OutputError(StageCommunities, "community master", path, err)
		}

		for _, p := range result.Partitions {
			groups := community.Display(p, r.cfg.DisplayCap)

			path := r.output(artifact.GroupingFile(p.Algorithm))
			if err := artifact.WriteGroupingReport(path, groups, result.ZeroDegree); err != nil {
				return OutputError(StageCommunities, "grouping report", path, err)
			}

			path = r.output(artifact.GraphExportFile(p.Algorithm))
			if err := artifact.WriteGraphExport(path, artifact.BuildGraphExport(groups, records, matrices)); err != nil {
				return OutputError(StageCommunities, "graph export", path, err)
			}

			r.metrics.RecordPartition(p.Algorithm, len(p.Communities), p.ReportedQ(), p.Elapsed)
		}

		logger.Info("communities detected",
			logging.Count(len(result.Partitions)),
			logging.Int("zero_degree", len(result.ZeroDegree)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summary assembles network_summary.json from the global stats and the
// community master file.
func (r *Runner) Summary(ctx context.Context) (*report.Summary, error) {
	var summary *report.Summary
	err := r.stage(ctx, StageSummary, func(ctx context.Context, logger logging.Logger) error {
		path := r.output(artifact.GlobalStatsFile)
		global, err := artifact.ReadGlobalStats(path)
		if err != nil {
			return InputError(StageSummary, "global stats", path, err)
		}

		path = r.output(artifact.CommunityMasterFile)
		communities, err := artifact.ReadCommunityMaster(path)
		if err != nil {
			return InputError(StageSummary, "community master", path, err)
		}

		summary, err = report.Assemble(r.runID, global, communities, r.cfg.Algorithms)
		if err != nil {
			return NewError(StageSummary).Entity("summary").Cause(err).Err()
		}

		path = r.output(artifact.SummaryFile)
		if err := artifact.WriteSummary(path, summary); err != nil {
			return OutputError(StageSummary, "summary", path, err)
		}

		logger.Info("summary written", logging.Path(path), logging.Count(len(summary.Algorithms)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *Runner) readRoster(stage string) (*identity.Roster, error) {
	path := r.output(artifact.MembersFile)
	roster, err := artifact.ReadMembers(path)
	if err != nil {
		return nil, InputError(stage, "members", path, err)
	}
	return roster, nil
}

// readMatrices loads both matrices and checks them against the roster order
// and against each other.
func (r *Runner) readMatrices(roster *identity.Roster) (*network.Matrices, error) {
	adjPath := r.output(artifact.AdjacencyFile)
	names, adjacency, err := artifact.ReadMatrix(adjPath)
	if err != nil {
		return nil, InputError(StageCommunities, "adjacency matrix", adjPath, err)
	}

	recPath := r.output(artifact.ReciprocityFile)
	recNames, reciprocity, err := artifact.ReadMatrix(recPath)
	if err != nil {
		return nil, InputError(StageCommunities, "reciprocity matrix", recPath, err)
	}

	if err := sameOrder(roster.Names(), names); err != nil {
		return nil, NewError(StageCommunities).Entity("adjacency matrix").Path(adjPath).Kind(ErrMalformedInput).Cause(err).Err()
	}
	if err := sameOrder(names, recNames); err != nil {
		return nil, NewError(StageCommunities).Entity("reciprocity matrix").Path(recPath).Kind(ErrMalformedInput).Cause(err).Err()
	}
	for i := range adjacency {
		for j := range adjacency[i] {
			if reciprocity[i][j] != adjacency[i][j]+adjacency[j][i] {
				return nil, NewError(StageCommunities).Entity("reciprocity matrix").Path(recPath).Kind(ErrMalformedInput).
					Cause(fmt.Errorf("cell (%s, %s) is %d, adjacency implies %d",
						names[i], names[j], reciprocity[i][j], adjacency[i][j]+adjacency[j][i])).Err()
			}
		}
	}

	return &network.Matrices{Names: names, Adjacency: adjacency, Reciprocity: reciprocity}, nil
}

func sameOrder(want, got []string) error {
	if len(want) != len(got) {
		return fmt.Errorf("%d members, expected %d", len(got), len(want))
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("position %d is %q, expected %q", i+1, got[i], want[i])
		}
	}
	return nil
}
