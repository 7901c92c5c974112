package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/catalog"
	"github.com/matsen/scinet/internal/openalex"
	"github.com/matsen/scinet/internal/pipeline"
)

var (
	fetchMaxWorks    int
	fetchInstitution string
	fetchRebuild     bool
)

func init() {
	fetchCmd.Flags().IntVar(&fetchMaxWorks, "max-works", 0, "Maximum number of works to download (default from config)")
	fetchCmd.Flags().StringVar(&fetchInstitution, "institution", "", "Institution search text (default from config)")
	fetchCmd.Flags().BoolVar(&fetchRebuild, "rebuild", false, "Rebuild the SQLite catalog after writing the tables")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download works from OpenAlex and write the source tables",
	Long: `Download works for the configured institution from OpenAlex.

The raw response is saved to <raw_dir>/works.json. The normalized tables
papers.csv, authors.csv, paper_author_affiliations.csv and
paper_references.csv replace those in <data_dir>. If the download stops
early, the works fetched so far are kept and the result is marked partial.

Set SCINET_OPENALEX_MAILTO to join the OpenAlex polite pool.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

// FetchResponse is the response for the fetch command.
type FetchResponse struct {
	*pipeline.IngestReport
	Catalog *catalog.Counts `json:"catalog,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if cmd.Flags().Changed("max-works") {
		cfg.OpenAlex.MaxWorks = fetchMaxWorks
	}
	if cmd.Flags().Changed("institution") {
		cfg.OpenAlex.Institution = fetchInstitution
	}
	log := mustLogger(cfg)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []openalex.ClientOption{
		openalex.WithMailto(cfg.OpenAlex.Mailto),
		openalex.WithAPIKey(cfg.OpenAlex.APIKey),
	}
	if cfg.OpenAlex.BaseURL != "" {
		opts = append(opts, openalex.WithBaseURL(cfg.OpenAlex.BaseURL))
	}
	if cfg.OpenAlex.RequestsPerSecond > 0 {
		opts = append(opts, openalex.WithRateLimit(cfg.OpenAlex.RequestsPerSecond))
	}
	client := openalex.NewClient(opts...)

	b := pipeline.NewBuilder(cfg, log)
	report, err := b.Ingest(ctx, client)
	if err != nil {
		return err
	}

	resp := FetchResponse{IngestReport: report}
	if fetchRebuild {
		counts, err := b.RebuildCatalog(ctx)
		if err != nil {
			return err
		}
		resp.Catalog = &counts
	}

	if humanOutput {
		outputHuman("Downloaded %d works for %s (%s)\n", report.Works, truncateString(report.Institution, 60), report.InstitutionID)
		if report.Partial {
			outputHuman("  download stopped early; kept the works fetched so far\n")
		}
		outputHuman("  papers: %d, authors: %d, paper-author rows: %d, references: %d\n",
			report.Papers, report.Authors, report.PaperAuthors, report.References)
		if skipped := report.Normalize.SkippedWorks + report.Normalize.SkippedAuthorships; skipped > 0 {
			outputHuman("  skipped %d works and %d authorships with no id\n",
				report.Normalize.SkippedWorks, report.Normalize.SkippedAuthorships)
		}
		outputHuman("  raw response: %s\n", report.RawPath)
		if fetchRebuild {
			outputHuman("  catalog rebuilt\n")
		}
		return nil
	}
	return outputJSON(resp)
}
