package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-followgraph/pkg/artifact"
	"github.com/dd0wney/cluso-followgraph/pkg/pipeline"
	"github.com/dd0wney/cluso-followgraph/pkg/store"
)

func setupCLITest(t *testing.T, extraConfig string) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"master.csv": "display_name,account_alias\nAlice,alice\nBob,bob\nCarol,carol\n",
		"following/alice-Following.csv": "username\nbob\n",
		"following/bob-Following.csv":   "username\nalice\ncarol\n",
		"followgraph.yaml": "master_list: master.csv\nfollowing_dir: following\noutput_dir: out\n" + extraConfig,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return filepath.Join(dir, "followgraph.yaml")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	cfgPath := setupCLITest(t, "")

	stdout, stderr, err := execute(t, "run", "--config", cfgPath)
	require.NoError(t, err)

	for _, algo := range []string{"greedy", "louvain", "walktrap"} {
		assert.Contains(t, stdout, algo)
	}
	assert.Contains(t, stdout, "Population:          3")
	assert.Contains(t, stderr, `"stage":"communities"`)
	assert.FileExists(t, filepath.Join(filepath.Dir(cfgPath), "out", artifact.SummaryFile))
}

func TestStageCommands(t *testing.T) {
	cfgPath := setupCLITest(t, "")

	_, _, err := execute(t, pipeline.StageMatrix, "--config", cfgPath)
	assert.ErrorIs(t, err, pipeline.ErrInputMissing)
	assert.False(t, pipeline.IsFatal(err))

	for _, stage := range pipeline.Stages {
		_, _, err := execute(t, stage, "--config", cfgPath, "--log-level", "error")
		require.NoError(t, err, stage)
	}

	stdout, _, err := execute(t, "show", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Modularity Q")
}

func TestLogLevelFlag(t *testing.T) {
	cfgPath := setupCLITest(t, "")

	_, stderr, err := execute(t, pipeline.StageResolve, "--config", cfgPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(stderr))
}

func TestOutputDirOverride(t *testing.T) {
	cfgPath := setupCLITest(t, "")
	out := filepath.Join(t.TempDir(), "elsewhere")

	_, _, err := execute(t, pipeline.StageResolve, "--config", cfgPath, "--output-dir", out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, artifact.MembersFile))
}

func TestHistoryAndStoredShow(t *testing.T) {
	cfgPath := setupCLITest(t, "store:\n  sqlite_path: runs.db\n")

	_, _, err := execute(t, "run", "--config", cfgPath, "--log-level", "error")
	require.NoError(t, err)

	stdout, _, err := execute(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	fields := strings.Fields(stdout)
	require.NotEmpty(t, fields)
	assert.Contains(t, stdout, "members=3 edges=3")

	runID := fields[0]
	stdout, _, err = execute(t, "show", "--config", cfgPath, "--run", runID)
	require.NoError(t, err)
	assert.Contains(t, stdout, runID)

	stdout, _, err = execute(t, "show", "--config", cfgPath, "--run", runID, "--groups")
	require.NoError(t, err)
	assert.Contains(t, stdout, "A  leader=Alice size=3  Alice | Bob | Carol")

	_, _, err = execute(t, "forget", runID, "--config", cfgPath, "--log-level", "error")
	require.NoError(t, err)

	stdout, _, err = execute(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "no stored runs")

	_, _, err = execute(t, "forget", runID, "--config", cfgPath)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestShowGroupsRequiresRun(t *testing.T) {
	cfgPath := setupCLITest(t, "")

	_, _, err := execute(t, "show", "--config", cfgPath, "--groups")
	assert.Error(t, err)
}

func TestHistoryWithoutStore(t *testing.T) {
	cfgPath := setupCLITest(t, "")

	_, _, err := execute(t, "history", "--config", cfgPath)
	assert.ErrorIs(t, err, pipeline.ErrConfig)
}

func TestInvalidConfigIsFatal(t *testing.T) {
	cfgPath := setupCLITest(t, "algorithms: [greedy, infomap]\n")

	_, _, err := execute(t, "run", "--config", cfgPath)
	require.Error(t, err)
	assert.True(t, pipeline.IsFatal(err))
}

func TestTraceFlag(t *testing.T) {
	cfgPath := setupCLITest(t, "")

	_, stderr, err := execute(t, pipeline.StageResolve, "--config", cfgPath, "--trace", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stderr, "pipeline.resolve")
}
