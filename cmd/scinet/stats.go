package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/network"
	"github.com/matsen/scinet/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the built networks",
	Long: `Print node and link counts, metadata and summary statistics for
author_network.json and citation_network.json. A network that has not been
built yet is reported as missing.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

// AuthorStatsResponse summarizes author_network.json.
type AuthorStatsResponse struct {
	Nodes    int                           `json:"nodes"`
	Links    int                           `json:"links"`
	Metadata network.CollaborationMetadata `json:"metadata"`
	Summary  network.CollaborationStats    `json:"summary"`
}

// CitationStatsResponse summarizes citation_network.json.
type CitationStatsResponse struct {
	Nodes    int                      `json:"nodes"`
	Links    int                      `json:"links"`
	Metadata network.CitationMetadata `json:"metadata"`
	Summary  network.CitationStats    `json:"summary"`
}

// StatsResponse is the response for the stats command.
type StatsResponse struct {
	Author   *AuthorStatsResponse   `json:"author_network"`
	Citation *CitationStatsResponse `json:"citation_network"`
}

func runStats(cmd *cobra.Command, args []string) error {
	b, log := mustBuilder()
	defer log.Sync()

	var resp StatsResponse

	ag, err := network.ReadCollaborationGraph(b.OutputPath(pipeline.KindAuthor))
	switch {
	case err == nil:
		resp.Author = &AuthorStatsResponse{
			Nodes: len(ag.Nodes), Links: len(ag.Links), Metadata: ag.Metadata, Summary: ag.Stats(),
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	cg, err := network.ReadCitationGraph(b.OutputPath(pipeline.KindCitation))
	switch {
	case err == nil:
		resp.Citation = &CitationStatsResponse{
			Nodes: len(cg.Nodes), Links: len(cg.Links), Metadata: cg.Metadata, Summary: cg.Stats(),
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	if !humanOutput {
		return outputJSON(resp)
	}

	if a := resp.Author; a != nil {
		outputHuman("Author network (%s)\n", a.Metadata.YearRange)
		outputHuman("  papers: %d, authors: %d, collaborations: %d\n",
			a.Metadata.TotalPapers, a.Metadata.TotalAuthors, a.Metadata.TotalCollaborations)
		outputHuman("  weight: avg %.2f, min %d, max %d\n", a.Summary.AvgWeight, a.Summary.MinWeight, a.Summary.MaxWeight)
		outputHuman("  papers per author: avg %.2f, max %d\n", a.Summary.AvgPapersPerAuthor, a.Summary.MaxPaperCount)
	} else {
		outputHuman("Author network: not built\n")
	}
	if c := resp.Citation; c != nil {
		outputHuman("Citation network (%s)\n", c.Metadata.YearRange)
		outputHuman("  papers: %d, citations: %d\n", c.Metadata.TotalPapers, c.Metadata.TotalCitations)
		outputHuman("  citations per paper: avg %.2f, max %d, uncited %d\n",
			c.Summary.AvgCitations, c.Summary.MaxCitations, c.Summary.ZeroCitations)
		outputHuman("  papers with no internal links: %d\n", c.Summary.IsolatedPapers)
	} else {
		outputHuman("Citation network: not built\n")
	}
	return nil
}
