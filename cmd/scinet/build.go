package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/config"
	"github.com/matsen/scinet/internal/pipeline"
)

var (
	buildYearFrom   int
	buildYearTo     int
	buildTopic      string
	buildMinTopical int
)

func init() {
	buildCmd.PersistentFlags().IntVar(&buildYearFrom, "year-from", 0, "First publication year (inclusive)")
	buildCmd.PersistentFlags().IntVar(&buildYearTo, "year-to", 0, "Last publication year (inclusive)")
	buildCmd.PersistentFlags().StringVar(&buildTopic, "topic", "", "Field-of-study substring; empty string disables the topical filter")
	buildCmd.PersistentFlags().IntVar(&buildMinTopical, "min-topical", 0, "Fall back to all papers in range below this many topical matches")

	buildCmd.AddCommand(buildAuthorCmd, buildCitationCmd, buildAllCmd)
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build network documents from the source tables",
	Long: `Build the author collaboration and paper citation networks.

Papers are selected by publication year and a case-insensitive topic
substring. When fewer than --min-topical papers match the topic, the topic
filter is dropped and every paper in the year range is used (a warning is
logged). Outputs are replaced atomically.

Examples:
  scinet build all
  scinet build author --year-from 2021 --year-to 2023
  scinet build citation --topic ""`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("specify what to build: author, citation, or all")
	},
}

var buildAuthorCmd = &cobra.Command{
	Use:   "author",
	Short: "Build author_network.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, []pipeline.Kind{pipeline.KindAuthor})
	},
}

var buildCitationCmd = &cobra.Command{
	Use:   "citation",
	Short: "Build citation_network.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, []pipeline.Kind{pipeline.KindCitation})
	},
}

var buildAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Build both networks concurrently",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, pipeline.Kinds)
	},
}

// applyBuildFlags overrides filter settings with flags the user set.
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("year-from") {
		cfg.Filter.YearFrom = buildYearFrom
	}
	if flags.Changed("year-to") {
		cfg.Filter.YearTo = buildYearTo
	}
	if flags.Changed("topic") {
		cfg.Filter.Topic = buildTopic
	}
	if flags.Changed("min-topical") {
		cfg.Filter.MinTopical = buildMinTopical
	}
	return cfg.Validate()
}

// BuildResponse is the response for the build command.
type BuildResponse struct {
	Status  string             `json:"status"`
	Reports []*pipeline.Report `json:"reports"`
	Error   string             `json:"error,omitempty"`
}

func runBuild(cmd *cobra.Command, kinds []pipeline.Kind) error {
	cfg := mustLoadConfig()
	if err := applyBuildFlags(cmd, cfg); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	log := mustLogger(cfg)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := pipeline.NewBuilder(cfg, log)

	var reports []*pipeline.Report
	var err error
	if len(kinds) == 1 {
		var r *pipeline.Report
		r, err = b.Build(ctx, kinds[0])
		if r != nil {
			reports = append(reports, r)
		}
	} else {
		reports, err = b.BuildAll(ctx)
	}

	if humanOutput {
		for _, r := range reports {
			outputHuman("%s network: %d nodes, %d links, years %s -> %s\n", r.Kind, r.Nodes, r.Links, r.YearRange, r.Path)
			if r.FellBack {
				outputHuman("  topic %q matched too few papers; used all papers in range\n", cfg.Filter.Topic)
			}
		}
		return err
	}

	if err != nil {
		// Partial success still reports what was written.
		if len(reports) > 0 {
			outputJSON(BuildResponse{Status: "partial", Reports: reports, Error: err.Error()})
			return &reportedError{err}
		}
		return err
	}
	return outputJSON(BuildResponse{Status: "built", Reports: reports})
}

// reportedError carries an error whose JSON output was already written.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
