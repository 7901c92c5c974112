// Package server exposes the published graphs and the catalog over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matsen/scinet/internal/logging"
	"github.com/matsen/scinet/internal/pipeline"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server runs the HTTP API and, optionally, periodic rebuilds.
type Server struct {
	builder *pipeline.Builder
	log     *logging.Logger
	http    *http.Server
}

// New creates a server for the builder's configuration.
func New(b *pipeline.Builder, log *logging.Logger) *Server {
	cfg := b.Config()
	if strings.EqualFold(cfg.Log.Mode, "production") || strings.EqualFold(cfg.Log.Mode, "prod") {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &Handler{OutputDir: cfg.OutputPath(), CatalogPath: cfg.CatalogPath()}
	return &Server{
		builder: b,
		log:     log,
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           NewRouter(h, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.log.Info("listening", "addr", s.http.Addr)

	if every := s.builder.Config().Server.RebuildEvery; every > 0 {
		go s.rebuildLoop(ctx, every)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// rebuildLoop rebuilds every graph on a fixed interval. Builds publish by
// rename, so requests in flight keep reading the previous documents.
func (s *Server) rebuildLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Rebuild(ctx)
		}
	}
}

// Rebuild runs one round of graph builds, then refreshes the catalog behind
// the paper and author endpoints, and logs the outcome.
func (s *Server) Rebuild(ctx context.Context) {
	reports, err := s.builder.BuildAll(ctx)
	for _, r := range reports {
		s.log.Info("scheduled rebuild published", "kind", string(r.Kind), "run_id", r.RunID, "nodes", r.Nodes, "links", r.Links)
	}
	switch {
	case errors.Is(err, pipeline.ErrBuildInProgress):
		s.log.Debug("skipped rebuild, previous build still running")
		return
	case err != nil:
		s.log.Error("scheduled rebuild failed", "error", err)
	}

	if _, err := s.builder.RebuildCatalog(ctx); err != nil {
		s.log.Error("scheduled catalog rebuild failed", "error", err)
	}
}
