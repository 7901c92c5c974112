package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/catalog"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite catalog from the source tables",
	Long: `Rebuild the ephemeral SQLite catalog used by the paper and author
query endpoints. The catalog is derived data and is recreated from the CSV
tables every time.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResponse is the response for the rebuild command.
type RebuildResponse struct {
	Status string         `json:"status"`
	Path   string         `json:"path"`
	Counts catalog.Counts `json:"counts"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	b, log := mustBuilder()
	defer log.Sync()

	counts, err := b.RebuildCatalog(context.Background())
	if err != nil {
		return err
	}

	if humanOutput {
		outputHuman("Rebuilt catalog at %s\n", b.Config().CatalogPath())
		outputHuman("  papers: %d, authors: %d, paper-author rows: %d, references: %d\n",
			counts.Papers, counts.Authors, counts.PaperAuthors, counts.References)
		return nil
	}
	return outputJSON(RebuildResponse{Status: "rebuilt", Path: b.Config().CatalogPath(), Counts: counts})
}
