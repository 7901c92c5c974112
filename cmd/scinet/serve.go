package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/pipeline"
	"github.com/matsen/scinet/internal/server"
)

var (
	serveAddr         string
	serveRebuildEvery time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 0.0.0.0:5001)")
	serveCmd.Flags().DurationVar(&serveRebuildEvery, "rebuild-every", 0, "Rebuild networks and catalog on this interval (0 disables)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the networks and catalog over HTTP",
	Long: `Serve the built network documents and the catalog query API.

Endpoints:
  GET /health                  liveness
  GET /api/author-network      author_network.json
  GET /api/citation-network    citation_network.json (year_from, year_to)
  GET /api/stats               counts and summary statistics
  GET /api/papers              catalog papers (q, year, limit, offset)
  GET /api/authors             catalog authors by paper count
  GET /api/authors/:id         one catalog author

The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if cmd.Flags().Changed("rebuild-every") {
		cfg.Server.RebuildEvery = serveRebuildEvery
	}
	log := mustLogger(cfg)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(pipeline.NewBuilder(cfg, log), log).Run(ctx)
}
