// Package config handles project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "scinet.yml"

// Default locations and filter settings, relative to the project root.
const (
	DefaultDataDir    = "data/processed"
	DefaultRawDir     = "data/raw"
	DefaultOutputDir  = "data/processed"
	DefaultYearFrom   = 2020
	DefaultYearTo     = 2025
	DefaultTopic      = "Computer Science"
	DefaultMinTopical = 50
	DefaultAddr       = "0.0.0.0:5001"
)

// ErrConfigNotFound is returned when no scinet.yml exists above the start directory.
var ErrConfigNotFound = errors.New("no " + ConfigFile + " found")

// Config represents project configuration stored in scinet.yml.
type Config struct {
	DataDir   string `yaml:"data_dir"`   // Processed CSV tables
	RawDir    string `yaml:"raw_dir"`    // Raw API responses
	OutputDir string `yaml:"output_dir"` // Graph documents

	Filter   FilterConfig   `yaml:"filter"`
	OpenAlex OpenAlexConfig `yaml:"openalex"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`

	// Root is the directory relative paths are resolved against.
	Root string `yaml:"-"`
}

// FilterConfig selects the in-scope paper population.
type FilterConfig struct {
	YearFrom   int    `yaml:"year_from"`
	YearTo     int    `yaml:"year_to"`
	Topic      string `yaml:"topic"`
	MinTopical int    `yaml:"min_topical"`
}

// OpenAlexConfig configures bulk acquisition.
type OpenAlexConfig struct {
	BaseURL           string  `yaml:"base_url,omitempty"`
	Mailto            string  `yaml:"mailto,omitempty"`
	APIKey            string  `yaml:"api_key,omitempty"`
	Institution       string  `yaml:"institution"`    // Search text
	InstitutionID     string  `yaml:"institution_id"` // Used when search fails
	MaxWorks          int     `yaml:"max_works"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// ServerConfig configures the query service.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	RebuildEvery time.Duration `yaml:"rebuild_every,omitempty"` // 0 disables scheduled rebuilds
}

// LogConfig configures logging.
type LogConfig struct {
	Mode  string `yaml:"mode"`  // "development" or "production"
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no scinet.yml exists.
func Default(root string) *Config {
	return &Config{
		DataDir:   DefaultDataDir,
		RawDir:    DefaultRawDir,
		OutputDir: DefaultOutputDir,
		Filter: FilterConfig{
			YearFrom:   DefaultYearFrom,
			YearTo:     DefaultYearTo,
			Topic:      DefaultTopic,
			MinTopical: DefaultMinTopical,
		},
		OpenAlex: OpenAlexConfig{
			Institution:       "University of California San Diego",
			InstitutionID:     "I138006243",
			MaxWorks:          1000,
			RequestsPerSecond: 5,
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Log:    LogConfig{Mode: "development", Level: "info"},
		Root:   root,
	}
}

// ConfigPath returns the path to scinet.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFile)
}

// IsProject checks if the given directory contains a scinet.yml file.
func IsProject(root string) bool {
	info, err := os.Stat(ConfigPath(root))
	return err == nil && !info.IsDir()
}

// FindProject walks up from the given path to find a directory with scinet.yml.
func FindProject(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrConfigNotFound
		}
		abs = parent
	}
}

// Load reads configuration from a scinet.yml file. Fields absent from the
// file keep their defaults; relative paths resolve against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}

	cfg := Default(root)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Root = root

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve finds the configuration for a run. An explicit path wins; otherwise
// scinet.yml is searched for from start upward, and defaults rooted at start
// are used when none exists.
func Resolve(explicit, start string) (*Config, error) {
	if explicit != "" {
		return Load(ExpandPath(explicit))
	}

	root, err := FindProject(start)
	if errors.Is(err, ErrConfigNotFound) {
		abs, err := filepath.Abs(start)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		return Default(abs), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(ConfigPath(root))
}

// Save writes configuration to scinet.yml in the config's root.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(c.Root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks that filter and server settings are usable.
func (c *Config) Validate() error {
	if c.Filter.YearFrom > c.Filter.YearTo {
		return fmt.Errorf("invalid filter: year_from %d is after year_to %d", c.Filter.YearFrom, c.Filter.YearTo)
	}
	if c.Filter.MinTopical < 0 {
		return fmt.Errorf("invalid filter: min_topical must be non-negative, got %d", c.Filter.MinTopical)
	}
	if c.OpenAlex.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid openalex: requests_per_second must be non-negative")
	}
	if c.Server.RebuildEvery < 0 {
		return fmt.Errorf("invalid server: rebuild_every must be non-negative, got %s", c.Server.RebuildEvery)
	}
	switch c.Log.Mode {
	case "", "development", "production":
	default:
		return fmt.Errorf("invalid log mode %q: must be development or production", c.Log.Mode)
	}
	return nil
}

// DataPath returns the absolute processed-table directory.
func (c *Config) DataPath() string { return c.resolve(c.DataDir) }

// RawPath returns the absolute raw-response directory.
func (c *Config) RawPath() string { return c.resolve(c.RawDir) }

// OutputPath returns the absolute graph output directory.
func (c *Config) OutputPath() string { return c.resolve(c.OutputDir) }

// CatalogPath returns the path of the SQLite query index.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.OutputPath(), "cache", "catalog.db")
}

func (c *Config) resolve(p string) string {
	p = ExpandPath(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
