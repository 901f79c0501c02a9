// Package config loads the optional YAML run configuration and builds the
// pipeline collaborators from it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/ignore"
	"github.com/lexandro/snapmatch/language"
	"github.com/lexandro/snapmatch/pairing"
	"github.com/lexandro/snapmatch/similarity"
	"github.com/lexandro/snapmatch/validate"
)

// Convention selects how file names map to submission identity and side.
type Convention struct {
	Name    string   `yaml:"name"`
	Pattern string   `yaml:"pattern"`
	Sides   []string `yaml:"sides"`
}

// Normalize holds the text normalization switches.
type Normalize struct {
	IgnoreWhitespace bool   `yaml:"ignore_whitespace"`
	IgnoreCase       bool   `yaml:"ignore_case"`
	IgnoreBlankLines *bool  `yaml:"ignore_blank_lines"` // nil means the default (true)
	Granularity      string `yaml:"granularity"`
}

// Config is the full run configuration.
type Config struct {
	Paths       []string   `yaml:"paths"` // relative entries resolve against the config file's directory
	Extensions  []string   `yaml:"extensions"`
	Convention  Convention `yaml:"convention"`
	Exclude     []string   `yaml:"exclude"`
	MaxFileSize int64      `yaml:"max_file_size"`
	Normalize   Normalize  `yaml:"normalize"`
	Workers     int        `yaml:"workers"`
	Threshold   float64    `yaml:"threshold"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extensions:  language.DefaultSnapshotExtensions(),
		Convention:  Convention{Name: pairing.SuffixConvention},
		MaxFileSize: validate.DefaultMaxFileSize,
		Normalize:   Normalize{Granularity: string(similarity.Lines)},
		Workers:     runtime.NumCPU(),
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, failure.Configf("config file %s does not exist", path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, failure.Configf("parsing config %s: %v", path, err)
	}
	baseDir := filepath.Dir(path)
	for i, p := range cfg.Paths {
		if p != "" && !filepath.IsAbs(p) {
			cfg.Paths[i] = filepath.Join(baseDir, p)
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and patterns.
func (c *Config) Validate() error {
	if c.MaxFileSize < 0 {
		return failure.Configf("max_file_size must not be negative, got %d", c.MaxFileSize)
	}
	if c.Workers < 0 {
		return failure.Configf("workers must not be negative, got %d", c.Workers)
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		return failure.Configf("threshold must be a percentage between 0 and 100, got %g", c.Threshold)
	}
	switch similarity.Granularity(c.Normalize.Granularity) {
	case "", similarity.Lines, similarity.Tokens:
	default:
		return failure.Configf("unknown granularity %q (want lines or tokens)", c.Normalize.Granularity)
	}
	if bad := ignore.ValidatePatterns(c.Exclude); bad != "" {
		return failure.Configf("invalid exclude pattern %q", bad)
	}
	if _, err := c.NewConvention(); err != nil {
		return err
	}
	return nil
}

// NewConvention builds the configured naming convention.
func (c *Config) NewConvention() (pairing.Convention, error) {
	return pairing.NewConvention(c.Convention.Name, c.Convention.Pattern, c.Convention.Sides)
}

// NewNormalizer builds the configured normalizer.
func (c *Config) NewNormalizer() similarity.Normalizer {
	n := similarity.Normalizer{
		Granularity:      similarity.Granularity(c.Normalize.Granularity),
		IgnoreWhitespace: c.Normalize.IgnoreWhitespace,
		IgnoreCase:       c.Normalize.IgnoreCase,
	}
	if n.Granularity == "" {
		n.Granularity = similarity.Lines
	}
	if c.Normalize.IgnoreBlankLines != nil {
		n.KeepBlankLines = !*c.Normalize.IgnoreBlankLines
	}
	return n
}

// NewValidator builds the snapshot-mode validator.
func (c *Config) NewValidator() *validate.SnapshotValidator {
	return validate.NewSnapshotValidator(c.Extensions, c.MaxFileSize)
}

// WorkerCount returns the number of parallel comparisons, at least one.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}
