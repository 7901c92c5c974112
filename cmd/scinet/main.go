// Package main provides the scinet CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/config"
	"github.com/matsen/scinet/internal/logging"
	"github.com/matsen/scinet/internal/pipeline"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	configPath  string
	logLevel    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "scinet",
	Short: "Build co-authorship and citation networks from bibliographic tables",
	Long: `scinet turns bibliographic tables (papers, authors, paper-author links and
references) into an author collaboration network and a paper citation network.

Typical flow:
  scinet fetch          # download works from OpenAlex into data/raw and data/processed
  scinet build all      # write author_network.json and citation_network.json
  scinet rebuild        # index the tables in SQLite for the query API
  scinet serve          # serve the networks over HTTP

Settings come from scinet.yml (searched upward from the working directory)
and .env. All commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to scinet.yml (default: search from the working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.Version = Version
}

// mustLoadConfig resolves configuration, applies .env and environment
// overrides, and exits on error.
func mustLoadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	cfg, err := config.Resolve(configPath, cwd)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// mustLogger builds the logger for cfg, exits on error.
// The caller is responsible for calling Sync() on the returned logger.
func mustLogger(cfg *config.Config) *logging.Logger {
	log, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		exitWithError(ExitConfigError, "initializing logger: %v", err)
	}
	return log
}

// mustBuilder loads configuration and returns a builder and its logger.
func mustBuilder() (*pipeline.Builder, *logging.Logger) {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	return pipeline.NewBuilder(cfg, log), log
}

func reportError(err error) {
	var reported *reportedError
	if errors.As(err, &reported) {
		return
	}
	if humanOutput {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return
	}
	outputJSON(ErrorResponse{Error: err.Error()})
}
