// Package config loads settings for batch root-finding runs from TOML or
// YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable LoadFromEnv consults.
const EnvVar = "ROOTFIND_CONFIG"

// MaxPrecision is the largest accepted Precision.
const MaxPrecision = 1 << 16

// Config holds the complete configuration of a batch run.
type Config struct {
	// Input is the batch file to read.
	Input string `toml:"input" yaml:"input"`
	// TraceFile receives one row per iteration.
	TraceFile string `toml:"trace_file" yaml:"trace_file"`
	// SummaryFile receives one row per batch line.
	SummaryFile string `toml:"summary_file" yaml:"summary_file"`
	// Database is the path of a SQLite database recording runs. Empty
	// disables it.
	Database string `toml:"database" yaml:"database"`
	// Precision is the number of bits used to recompute the final residual
	// of each line. Zero keeps the float64 residual.
	Precision uint `toml:"precision" yaml:"precision"`
	// Quiet suppresses the console report.
	Quiet bool `toml:"quiet" yaml:"quiet"`
	// Verbose prints every iteration on the console.
	Verbose bool `toml:"verbose" yaml:"verbose"`

	Defaults Defaults `toml:"defaults" yaml:"defaults"`
}

// Defaults holds the stopping criteria for batch lines that omit them.
type Defaults struct {
	Tolerance     float64 `toml:"tolerance" yaml:"tolerance"`
	MaxIterations int     `toml:"max_iterations" yaml:"max_iterations"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load loads configuration from a TOML file, or a YAML file if the path ends
// in .yaml or .yml. Unknown keys are errors.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()
	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = DecodeYAML(f)
	default:
		cfg, err = DecodeTOML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeTOML reads a TOML configuration and applies defaults.
func DecodeTOML(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, err
	}
	if u := md.Undecoded(); len(u) != 0 {
		return nil, fmt.Errorf("unknown key %q", u[0].String())
	}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return &cfg, nil
}

// DecodeYAML reads a YAML configuration and applies defaults.
func DecodeYAML(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return &cfg, nil
}

// LoadFromEnv loads the file named by ROOTFIND_CONFIG, or else the first of
// ./rootfind.toml, ./rootfind.yaml and ./rootfind.yml that exists. If there
// is none, it returns Default().
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, p := range []string{"./rootfind.toml", "./rootfind.yaml", "./rootfind.yml"} {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration.
func (c *Config) applyDefaults() {
	if c.Input == "" {
		c.Input = "functions.txt"
	}
	if c.TraceFile == "" {
		c.TraceFile = "iterations.txt"
	}
	if c.SummaryFile == "" {
		c.SummaryFile = "results.txt"
	}
	if c.Defaults.Tolerance == 0 {
		c.Defaults.Tolerance = 1e-6
	}
	if c.Defaults.MaxIterations == 0 {
		c.Defaults.MaxIterations = 100
	}
}

func (c *Config) expandEnvVars() {
	c.Input = os.ExpandEnv(c.Input)
	c.TraceFile = os.ExpandEnv(c.TraceFile)
	c.SummaryFile = os.ExpandEnv(c.SummaryFile)
	c.Database = os.ExpandEnv(c.Database)
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if !(c.Defaults.Tolerance > 0) || math.IsInf(c.Defaults.Tolerance, 0) {
		return fmt.Errorf("defaults.tolerance must be a positive number, not %g", c.Defaults.Tolerance)
	}
	if c.Defaults.MaxIterations < 1 {
		return fmt.Errorf("defaults.max_iterations must be at least 1, not %d", c.Defaults.MaxIterations)
	}
	if c.Precision > MaxPrecision {
		return fmt.Errorf("precision must be at most %d bits, not %d", MaxPrecision, c.Precision)
	}
	if c.TraceFile == c.SummaryFile {
		return fmt.Errorf("trace_file and summary_file are both %q", c.TraceFile)
	}
	return nil
}

// WriteTOML writes c in TOML form.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
