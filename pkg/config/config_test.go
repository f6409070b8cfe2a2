package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-followgraph/pkg/community"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "followgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "master_list: members.csv\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "members.csv"), cfg.MasterList)
	assert.Equal(t, filepath.Join(dir, DefaultOutputDir), cfg.OutputDir)
	assert.Equal(t, DefaultFollowingSuffix, cfg.FollowingSuffix)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
	assert.Equal(t, 4, cfg.WalktrapSteps)
	assert.Equal(t, community.DefaultDisplayCap, cfg.DisplayCap)
	assert.Equal(t, community.DefaultAlgorithms, cfg.Algorithms)
	assert.Equal(t, 1.0, cfg.Louvain.Resolution)
	assert.Equal(t, 1e-7, cfg.Louvain.Threshold)
	assert.Equal(t, 100, cfg.LabelPropagation.MaxIterations)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, dir, cfg.FollowingDirOrDefault())
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
master_list: /data/members.csv
following_dir: /data/following
following_suffix: _follows
output_dir: /data/out
population_size: 50
random_seed: 7
walktrap_steps: 5
display_cap: 6
algorithms: [walktrap, label_propagation]
log_level: debug
louvain:
  resolution: 1.5
  threshold: 0.001
label_propagation:
  max_iterations: 20
store:
  sqlite_path: runs.db
archive:
  path: /data/run.fga
metrics:
  textfile: /data/followgraph.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/following", cfg.FollowingDirOrDefault())
	assert.Equal(t, "_follows", cfg.FollowingSuffix)
	assert.Equal(t, 50, cfg.PopulationSize)
	assert.Equal(t, []string{"walktrap", "label_propagation"}, cfg.Algorithms)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "runs.db"), cfg.Store.SQLitePath)
	assert.Equal(t, "/data/run.fga", cfg.Archive.Path)

	opts := cfg.CommunityOptions()
	assert.Equal(t, uint64(7), opts.Seed)
	assert.Equal(t, 5, opts.WalktrapSteps)
	assert.Equal(t, 1.5, opts.LouvainResolution)
	assert.Equal(t, 0.001, opts.LouvainThreshold)
	assert.Equal(t, 20, opts.MaxIterations)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing master list", "output_dir: out\n", "MasterList"},
		{"unknown algorithm", "master_list: m.csv\nalgorithms: [greedy, infomap]\n", "unknown algorithm"},
		{"duplicate algorithm", "master_list: m.csv\nalgorithms: [greedy, greedy]\n", "more than once"},
		{"display cap too small", "master_list: m.csv\ndisplay_cap: 1\n", "DisplayCap"},
		{"bad log level", "master_list: m.csv\nlog_level: loud\n", "LogLevel"},
		{"tiny population", "master_list: m.csv\npopulation_size: 1\n", "PopulationSize"},
		{"negative resolution", "master_list: m.csv\nlouvain:\n  resolution: -1\n", "Louvain.Resolution"},
		{"negative walktrap steps", "master_list: m.csv\nwalktrap_steps: -2\n", "WalktrapSteps"},
		{"negative population", "master_list: m.csv\npopulation_size: -3\n", "PopulationSize"},
		{"malformed yaml", "master_list: [unclosed\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.MasterList = "/data/members.csv"
	cfg.OutputDir = "/data/out"
	cfg.Algorithms = []string{community.Louvain}

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCheckListsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.DisplayCap = 1
	cfg.LogLevel = "loud"
	cfg.LabelPropagation.MaxIterations = -1

	problems := cfg.Check()
	require.Len(t, problems, 4)
	assert.Contains(t, problems[0].Error(), "MasterList")
	assert.Contains(t, problems[1].Error(), "DisplayCap")
	assert.Contains(t, problems[2].Error(), "LogLevel")
	assert.Contains(t, problems[3].Error(), "LabelPropagation.MaxIterations")

	cfg.MasterList = "members.csv"
	cfg.DisplayCap = 8
	cfg.LogLevel = "warn"
	cfg.LabelPropagation.MaxIterations = 10
	assert.Empty(t, cfg.Check())
	assert.NoError(t, cfg.Validate())
}
