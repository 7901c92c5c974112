package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/export"
	"github.com/matsen/scinet/internal/network"
	"github.com/matsen/scinet/internal/pipeline"
	"github.com/matsen/scinet/internal/viz"
)

var vizOutput string
var vizLayout string

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "force", "Layout algorithm: force, circle, or grid")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:       "viz author|citation",
	Short:     "Generate an HTML visualization of a network",
	ValidArgs: []string{string(pipeline.KindAuthor), string(pipeline.KindCitation)},
	Long: `Generate an interactive Cytoscape.js HTML page for a built network.

Author nodes are sized by paper count and edges by collaboration weight.
Paper nodes are sized by citation count and edges point from the citing
paper to the cited one.

Examples:
  # Generate HTML to stdout
  scinet viz author > authors.html

  # Generate to file with a circular layout
  scinet viz citation --layout circle --output citations.html`,
	Args: cobra.ExactArgs(1),
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	kind, err := pipeline.ParseKind(args[0])
	if err != nil {
		return err
	}

	b, log := mustBuilder()
	defer log.Sync()

	var graph *viz.GraphData
	switch kind {
	case pipeline.KindAuthor:
		g, err := network.ReadCollaborationGraph(b.OutputPath(kind))
		if err != nil {
			return err
		}
		graph = viz.FromCollaboration(g)
	case pipeline.KindCitation:
		g, err := network.ReadCitationGraph(b.OutputPath(kind))
		if err != nil {
			return err
		}
		graph = viz.FromCitation(g)
	}

	html, err := viz.GenerateHTML(graph, viz.HTMLOptions{Layout: vizLayout})
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}

	err = export.WriteFile(vizOutput, func(w io.Writer) error {
		_, err := io.Copy(w, strings.NewReader(html))
		return err
	})
	if err != nil {
		return err
	}
	if humanOutput {
		outputHuman("Visualization written to %s\n", vizOutput)
		return nil
	}
	return outputJSON(StatusResponse{Status: "written", Path: vizOutput})
}
