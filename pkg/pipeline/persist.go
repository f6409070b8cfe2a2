package pipeline

import (
	"context"

	"github.com/dd0wney/cluso-followgraph/pkg/artifact"
	"github.com/dd0wney/cluso-followgraph/pkg/logging"
	"github.com/dd0wney/cluso-followgraph/pkg/report"
	"github.com/dd0wney/cluso-followgraph/pkg/store"
)

// ArtifactNames lists every artifact a run with the given algorithms writes.
func ArtifactNames(algorithms []string) []string {
	names := []string{
		artifact.MembersFile,
		artifact.EdgeListFile,
		artifact.TotalFollowingFile,
		artifact.AdjacencyFile,
		artifact.ReciprocityFile,
		artifact.MetricsReportFile,
		artifact.ZeroDegreeFile,
		artifact.GlobalStatsFile,
		artifact.CommunityMasterFile,
	}
	for _, a := range algorithms {
		names = append(names, artifact.GroupingFile(a), artifact.GraphExportFile(a))
	}
	return append(names, artifact.SummaryFile)
}

func (r *Runner) writeArchive() error {
	a, err := artifact.WriteArchive(r.cfg.Archive.Path, r.runID, r.cfg.OutputDir, ArtifactNames(r.cfg.Algorithms))
	if err != nil {
		return OutputError("archive", "run archive", r.cfg.Archive.Path, err)
	}
	r.logger.Info("run archived", logging.Path(r.cfg.Archive.Path), logging.Count(len(a.Files)))
	return nil
}

// saveSnapshot reloads the run's artifacts and stores them in SQLite.
func (r *Runner) saveSnapshot(ctx context.Context, summary *report.Summary) error {
	const stage = "store"

	roster, err := r.readRoster(stage)
	if err != nil {
		return err
	}
	path := r.output(artifact.EdgeListFile)
	edgeList, err := artifact.ReadEdgeList(path)
	if err != nil {
		return InputError(stage, "edge list", path, err)
	}
	path = r.output(artifact.MetricsReportFile)
	records, err := artifact.ReadMetricsReport(path)
	if err != nil {
		return InputError(stage, "metrics report", path, err)
	}
	path = r.output(artifact.CommunityMasterFile)
	communities, err := artifact.ReadCommunityMaster(path)
	if err != nil {
		return InputError(stage, "community master", path, err)
	}

	s, err := store.Open(r.cfg.Store.SQLitePath)
	if err != nil {
		return NewError(stage).Entity("database").Path(r.cfg.Store.SQLitePath).Cause(err).Err()
	}
	defer s.Close()

	snap := &store.Snapshot{
		RunID:       r.runID,
		CreatedAt:   summary.GeneratedAt,
		Members:     roster.Members(),
		Edges:       edgeList,
		Records:     records,
		Communities: communities,
		Summary:     summary,
	}
	if err := s.SaveRun(ctx, snap); err != nil {
		return NewError(stage).Entity("snapshot").Path(r.cfg.Store.SQLitePath).Cause(err).Err()
	}

	r.logger.Info("run stored", logging.Path(r.cfg.Store.SQLitePath))
	return nil
}
