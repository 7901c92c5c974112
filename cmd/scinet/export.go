package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/export"
	"github.com/matsen/scinet/internal/network"
	"github.com/matsen/scinet/internal/pipeline"
)

// Export file names inside the output directory.
const (
	EdgeListFile = "author_edges.csv"
	D3File       = "author_network_d3.json"
)

var exportOutput string

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: inside the output directory)")
	exportCmd.AddCommand(exportEdgesCmd, exportD3Cmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the author network in other formats",
}

var exportEdgesCmd = &cobra.Command{
	Use:   "edges",
	Short: "Write author_edges.csv from author_network.json",
	Long: `Write the collaboration links of author_network.json as a
source,target,weight CSV edge list.`,
	Args: cobra.NoArgs,
	RunE: runExportEdges,
}

var exportD3Cmd = &cobra.Command{
	Use:   "d3",
	Short: "Write author_network_d3.json from author_edges.csv",
	Long: `Convert the author edge list into a D3 force-graph document. Each
author becomes a node annotated with its number of collaborators (degree);
links keep their weights.

Run "scinet export edges" first.`,
	Args: cobra.NoArgs,
	RunE: runExportD3,
}

func exportPath(outDir, name string) string {
	if exportOutput != "" {
		return exportOutput
	}
	return filepath.Join(outDir, name)
}

func runExportEdges(cmd *cobra.Command, args []string) error {
	b, log := mustBuilder()
	defer log.Sync()

	g, err := network.ReadCollaborationGraph(b.OutputPath(pipeline.KindAuthor))
	if err != nil {
		return err
	}

	path := exportPath(b.Config().OutputPath(), EdgeListFile)
	if err := network.WriteEdgeList(path, g.Links); err != nil {
		return err
	}
	log.Info("edge list written", "path", path, "links", len(g.Links))

	if humanOutput {
		outputHuman("Wrote %d edges to %s\n", len(g.Links), path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "exported", Path: path})
}

func runExportD3(cmd *cobra.Command, args []string) error {
	b, log := mustBuilder()
	defer log.Sync()

	outDir := b.Config().OutputPath()
	links, err := network.ReadEdgeList(filepath.Join(outDir, EdgeListFile))
	if err != nil {
		return err
	}

	g := network.NewDegreeGraph(links)
	path := exportPath(outDir, D3File)
	if err := export.WriteJSON(path, g); err != nil {
		return err
	}
	log.Info("d3 network written", "path", path, "nodes", len(g.Nodes), "links", len(g.Links))

	if humanOutput {
		outputHuman("Saved D3 network JSON to %s\n", path)
		outputHuman("Nodes: %d, Links: %d\n", len(g.Nodes), len(g.Links))
		return nil
	}
	return outputJSON(StatusResponse{Status: "exported", Path: path})
}
