package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-followgraph/pkg/artifact"
	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/config"
	"github.com/dd0wney/cluso-followgraph/pkg/logging"
	"github.com/dd0wney/cluso-followgraph/pkg/pipeline"
	"github.com/dd0wney/cluso-followgraph/pkg/report"
	"github.com/dd0wney/cluso-followgraph/pkg/store"
)

// cli holds the global flags and the state built from them.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	trace      bool
	outputDir  string

	cfg    *config.Config
	logger logging.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           "followgraph",
		Short:         "Build follow graphs, influence metrics and communities for a fixed population",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "followgraph.yaml", "Path to the YAML configuration")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config and LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&c.trace, "trace", false, "Write OpenTelemetry spans to stderr")
	rootCmd.PersistentFlags().StringVarP(&c.outputDir, "output-dir", "o", "", "Override the configured output directory")

	stageCmds := []struct {
		name  string
		short string
	}{
		{pipeline.StageResolve, "Canonicalize the master list into members.json"},
		{pipeline.StageEdges, "Aggregate following lists into the edge list and following totals"},
		{pipeline.StageMatrix, "Build adjacency/reciprocity matrices and the metrics report"},
		{pipeline.StageCommunities, "Run the configured community detection algorithms"},
		{pipeline.StageSummary, "Assemble network_summary.json"},
	}
	for _, s := range stageCmds {
		name := s.name
		rootCmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withRunner(cmd.Context(), func(ctx context.Context, r *pipeline.Runner) error {
					return r.RunStage(ctx, name)
				})
			},
		})
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run every stage in order and print the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRunner(cmd.Context(), func(ctx context.Context, r *pipeline.Runner) error {
				summary, err := r.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, report.Render(summary))
				return nil
			})
		},
	})

	var (
		runID      string
		showGroups bool
	)
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the summary of the last run, or of a stored run with --run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showGroups && runID == "" {
				return fmt.Errorf("--groups requires --run")
			}
			if err := c.load(); err != nil {
				return err
			}
			summary, err := c.summary(cmd.Context(), runID)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, report.Render(summary))
			if showGroups {
				return c.groups(cmd.Context(), summary)
			}
			return nil
		},
	}
	showCmd.Flags().StringVar(&runID, "run", "", "Run id to load from the SQLite store")
	showCmd.Flags().BoolVar(&showGroups, "groups", false, "Also list the stored communities of every algorithm")
	rootCmd.AddCommand(showCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "List runs recorded in the SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(); err != nil {
				return err
			}
			return c.history(cmd.Context())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "forget RUN_ID",
		Short: "Delete a run from the SQLite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(); err != nil {
				return err
			}
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.logger.Info("run deleted", logging.RunID(args[0]))
			return nil
		},
	})

	return rootCmd
}

// load reads the configuration and builds the logger.
func (c *cli) load() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return pipeline.NewError("config").Path(c.configPath).Kind(pipeline.ErrConfig).Cause(err).Err()
	}
	if c.outputDir != "" {
		cfg.OutputDir = c.outputDir
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if c.logLevel != "" {
		level = c.logLevel
	}
	c.logger = logging.NewJSONLogger(c.stderr, logging.ParseLevel(level))
	return nil
}

// withRunner loads the configuration, installs tracing if asked and runs fn.
func (c *cli) withRunner(ctx context.Context, fn func(context.Context, *pipeline.Runner) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.load(); err != nil {
		return err
	}

	if c.trace {
		shutdown, err := setupTracing(c.stderr)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				c.logger.Warn("trace shutdown failed", logging.Error(err))
			}
		}()
	}

	return fn(ctx, pipeline.NewRunner(c.cfg, c.logger))
}

func (c *cli) summary(ctx context.Context, runID string) (*report.Summary, error) {
	if runID == "" {
		return artifact.ReadSummary(filepath.Join(c.cfg.OutputDir, artifact.SummaryFile))
	}

	s, err := c.openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Summary(ctx, runID)
}

func (c *cli) history(ctx context.Context) error {
	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.stdout, "no stored runs")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(c.stdout, "%s  %s  members=%d edges=%d\n",
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Population, r.EdgeCount)
	}
	return nil
}

// groups prints the stored communities of a run, one algorithm at a time.
func (c *cli) groups(ctx context.Context, summary *report.Summary) error {
	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, a := range summary.Algorithms {
		communities, err := s.Communities(ctx, summary.RunID, a.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "%s\n", a.Name)
		for i, cm := range communities {
			fmt.Fprintf(c.stdout, "  %s  leader=%s size=%d  %s\n",
				community.GroupLabel(i), cm.Leader, cm.Size, strings.Join(cm.Members, " | "))
		}
	}
	return nil
}

func (c *cli) openStore() (*store.Store, error) {
	if c.cfg.Store.SQLitePath == "" {
		return nil, pipeline.NewError("store").Kind(pipeline.ErrConfig).
			Cause(fmt.Errorf("store.sqlite_path is not configured")).Err()
	}
	return store.Open(c.cfg.Store.SQLitePath)
}
