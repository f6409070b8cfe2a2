// Package config loads the run configuration shared by every pipeline stage.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/validation"
)

// LogLevels lists the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Defaults
const (
	DefaultFollowingSuffix = "-Following"
	DefaultOutputDir       = "output"
	DefaultSeed            = 42
	DefaultLogLevel        = "info"
)

// Config is one pipeline invocation's settings.
type Config struct {
	MasterList      string   `yaml:"master_list"`
	FollowingDir    string   `yaml:"following_dir"`
	FollowingSuffix string   `yaml:"following_suffix"`
	OutputDir       string   `yaml:"output_dir"`
	PopulationSize  int      `yaml:"population_size,omitempty" validate:"gte=0"`
	RandomSeed      uint64   `yaml:"random_seed"`
	WalktrapSteps   int      `yaml:"walktrap_steps"`
	DisplayCap      int      `yaml:"display_cap"`
	Algorithms      []string `yaml:"algorithms"`
	LogLevel        string   `yaml:"log_level"`

	Louvain          LouvainConfig          `yaml:"louvain"`
	LabelPropagation LabelPropagationConfig `yaml:"label_propagation"`
	Store            StoreConfig            `yaml:"store"`
	Archive          ArchiveConfig          `yaml:"archive"`
	Metrics          MetricsConfig          `yaml:"metrics"`
}

// LouvainConfig tunes the Louvain optimiser.
type LouvainConfig struct {
	Resolution float64 `yaml:"resolution"`
	Threshold  float64 `yaml:"threshold"`
}

// LabelPropagationConfig bounds label propagation sweeps.
type LabelPropagationConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// StoreConfig enables the SQLite run history when SQLitePath is set.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// ArchiveConfig enables the compressed run archive when Path is set.
type ArchiveConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig enables the Prometheus textfile when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns a configuration with every optional field filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration file, fills in defaults and validates it.
// Relative paths in the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.resolvePaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	c.FollowingSuffix = validation.DefaultOr(c.FollowingSuffix, DefaultFollowingSuffix)
	c.OutputDir = validation.DefaultOr(c.OutputDir, DefaultOutputDir)
	c.RandomSeed = validation.DefaultOr(c.RandomSeed, uint64(DefaultSeed))
	c.DisplayCap = validation.DefaultOr(c.DisplayCap, community.DefaultDisplayCap)
	c.LogLevel = validation.DefaultOr(c.LogLevel, DefaultLogLevel)
	if len(c.Algorithms) == 0 {
		c.Algorithms = append([]string(nil), community.DefaultAlgorithms...)
	}

	defaults := community.DefaultOptions()
	c.WalktrapSteps = validation.DefaultOr(c.WalktrapSteps, defaults.WalktrapSteps)
	c.Louvain.Resolution = validation.DefaultOr(c.Louvain.Resolution, defaults.LouvainResolution)
	c.Louvain.Threshold = validation.DefaultOr(c.Louvain.Threshold, defaults.LouvainThreshold)
	c.LabelPropagation.MaxIterations = validation.DefaultOr(c.LabelPropagation.MaxIterations, defaults.MaxIterations)
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{
		&c.MasterList, &c.FollowingDir, &c.OutputDir,
		&c.Store.SQLitePath, &c.Archive.Path, &c.Metrics.Textfile,
	} {
		if *p != "" && *p != ":memory:" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate reports every configuration problem as one error.
func (c *Config) Validate() error {
	problems := c.Check()
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config: %w", errors.Join(problems...))
}

// Check lists every configuration problem, in field order.
func (c *Config) Check() []error {
	var problems []error
	if err := validation.Struct(c); err != nil {
		problems = append(problems, err)
	}

	cv := validation.NewConfigValidator("Config").
		Required("MasterList", c.MasterList).
		Required("OutputDir", c.OutputDir).
		When(c.PopulationSize > 0, func(cv *validation.ConfigValidator) {
			cv.MinInt("PopulationSize", c.PopulationSize, 2)
		}).
		Positive("WalktrapSteps", c.WalktrapSteps).
		MinInt("DisplayCap", c.DisplayCap, 2).
		Custom("Algorithms", func() error {
			return validation.ValidateAlgorithmNames(c.Algorithms, community.KnownAlgorithms)
		}).
		OneOf("LogLevel", c.LogLevel, LogLevels).
		PositiveFloat("Louvain.Resolution", c.Louvain.Resolution).
		PositiveFloat("Louvain.Threshold", c.Louvain.Threshold).
		Positive("LabelPropagation.MaxIterations", c.LabelPropagation.MaxIterations)

	if cv.HasErrors() {
		problems = append(problems, cv.Errors()...)
	}
	return problems
}

// FollowingDirOrDefault is the directory holding the raw following lists.
func (c *Config) FollowingDirOrDefault() string {
	if c.FollowingDir != "" {
		return c.FollowingDir
	}
	return filepath.Dir(c.MasterList)
}

// CommunityOptions maps the config onto algorithm options.
func (c *Config) CommunityOptions() community.Options {
	return community.Options{
		Seed:              c.RandomSeed,
		WalktrapSteps:     c.WalktrapSteps,
		LouvainResolution: c.Louvain.Resolution,
		LouvainThreshold:  c.Louvain.Threshold,
		MaxIterations:     c.LabelPropagation.MaxIterations,
	}
}
