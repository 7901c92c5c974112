// Package pipeline runs graph builds end to end: load tables, select the
// population, build a graph and publish it atomically.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matsen/scinet/internal/config"
	"github.com/matsen/scinet/internal/logging"
	"github.com/matsen/scinet/internal/network"
	"github.com/matsen/scinet/internal/population"
	"github.com/matsen/scinet/internal/tables"
)

// Kind names a graph the builder can produce.
type Kind string

const (
	KindAuthor   Kind = "author"
	KindCitation Kind = "citation"
)

// Kinds lists every graph kind in build order.
var Kinds = []Kind{KindAuthor, KindCitation}

// ErrBuildInProgress is returned when a build of the same kind is running.
var ErrBuildInProgress = errors.New("build already in progress")

// ParseKind converts a command-line name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAuthor, KindCitation:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown graph kind %q (want author or citation)", s)
}

// File returns the output file name for the kind.
func (k Kind) File() string {
	if k == KindCitation {
		return network.CitationNetworkFile
	}
	return network.AuthorNetworkFile
}

// need returns the tables a build of this kind reads.
func (k Kind) need() tables.Need {
	if k == KindCitation {
		return tables.Need{Papers: true, References: true}
	}
	return tables.Need{Papers: true, Authors: true, PaperAuthors: true}
}

// Report describes one completed build.
type Report struct {
	Kind        Kind                `json:"kind"`
	RunID       string              `json:"run_id"`
	Path        string              `json:"path"`
	Nodes       int                 `json:"nodes"`
	Links       int                 `json:"links"`
	TotalPapers int                 `json:"total_papers"`
	YearRange   string              `json:"year_range"`
	FellBack    bool                `json:"fell_back"`
	Fingerprint string              `json:"fingerprint"`
	Tables      []tables.LoadReport `json:"tables"`
	Duration    time.Duration       `json:"-"`
	DurationMS  int64               `json:"duration_ms"`
}

// Builder produces graph documents from the tables in a data directory.
// It is safe for concurrent use; at most one build per kind runs at a time.
type Builder struct {
	cfg   *config.Config
	log   *logging.Logger
	locks map[Kind]*sync.Mutex
}

// NewBuilder creates a builder. A nil logger discards output.
func NewBuilder(cfg *config.Config, log *logging.Logger) *Builder {
	if log == nil {
		log = logging.Nop()
	}
	locks := make(map[Kind]*sync.Mutex, len(Kinds))
	for _, k := range Kinds {
		locks[k] = &sync.Mutex{}
	}
	return &Builder{cfg: cfg, log: log, locks: locks}
}

// Config returns the builder's configuration.
func (b *Builder) Config() *config.Config { return b.cfg }

// OutputPath returns where a build of kind is published.
func (b *Builder) OutputPath(kind Kind) string {
	return filepath.Join(b.cfg.OutputPath(), kind.File())
}

// Criteria returns the population filter settings.
func (b *Builder) Criteria() population.Criteria {
	f := b.cfg.Filter
	return population.Criteria{
		YearFrom:   f.YearFrom,
		YearTo:     f.YearTo,
		Topic:      f.Topic,
		MinTopical: f.MinTopical,
	}
}

// Build loads a fresh snapshot, builds the graph of the given kind and
// replaces its output file. On error the previous output is left untouched.
func (b *Builder) Build(ctx context.Context, kind Kind) (*Report, error) {
	mu, ok := b.locks[kind]
	if !ok {
		return nil, fmt.Errorf("unknown graph kind %q", kind)
	}
	if !mu.TryLock() {
		return nil, fmt.Errorf("%s graph: %w", kind, ErrBuildInProgress)
	}
	defer mu.Unlock()

	start := time.Now()
	report := &Report{Kind: kind, RunID: uuid.NewString(), Path: b.OutputPath(kind)}
	log := b.log.With("run_id", report.RunID, "kind", string(kind))
	log.Info("build started", "data_dir", b.cfg.DataPath())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, loads, err := tables.LoadSnapshot(tables.PathsIn(b.cfg.DataPath()), kind.need())
	report.Tables = loads
	if err != nil {
		log.Error("loading tables failed", "error", err)
		return nil, fmt.Errorf("%s graph: %w", kind, err)
	}
	for _, l := range loads {
		if l.Malformed > 0 || l.Skipped > 0 {
			log.Warn("malformed rows", "table", l.Table, "rows", l.Rows, "malformed", l.Malformed, "skipped", l.Skipped)
		}
	}

	crit := b.Criteria()
	scope := population.Filter(snap.Papers, crit)
	if scope.FellBack {
		log.Warn("topical filter matched too few papers, using all papers in year range",
			"topic", crit.Topic, "matched", scope.TopicMatched, "threshold", minTopical(crit), "year_matched", scope.YearMatched)
	}
	report.FellBack = scope.FellBack
	report.TotalPapers = len(scope.Papers)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch kind {
	case KindAuthor:
		g, diag := network.BuildCollaboration(scope.Papers, snap.PaperAuthors, snap.Authors)
		if diag.MissingAuthors > 0 {
			log.Warn("collaborators missing from author table", "count", diag.MissingAuthors)
		}
		if err := g.Write(report.Path); err != nil {
			log.Error("writing graph failed", "path", report.Path, "error", err)
			return nil, err
		}
		report.Nodes, report.Links = len(g.Nodes), len(g.Links)
		report.YearRange, report.Fingerprint = g.Metadata.YearRange, g.Fingerprint()
	case KindCitation:
		g, diag := network.BuildCitation(scope.Papers, snap.References)
		log.Debug("internal citations", "raw", diag.RawReferences, "internal", diag.Internal)
		if err := g.Write(report.Path); err != nil {
			log.Error("writing graph failed", "path", report.Path, "error", err)
			return nil, err
		}
		report.Nodes, report.Links = len(g.Nodes), len(g.Links)
		report.YearRange, report.Fingerprint = g.Metadata.YearRange, g.Fingerprint()
	}

	report.Duration = time.Since(start)
	report.DurationMS = report.Duration.Milliseconds()
	log.Info("build finished", "nodes", report.Nodes, "links", report.Links, "path", report.Path, "duration", report.Duration)
	return report, nil
}

func minTopical(c population.Criteria) int {
	if c.MinTopical <= 0 {
		return population.DefaultMinTopical
	}
	return c.MinTopical
}

// BuildAll builds every kind concurrently. A failure in one build neither
// cancels nor rolls back the others: reports are returned for the builds
// that succeeded and the error joins the failures.
func (b *Builder) BuildAll(ctx context.Context) ([]*Report, error) {
	reports := make([]*Report, len(Kinds))
	errs := make([]error, len(Kinds))

	var g errgroup.Group
	for i, kind := range Kinds {
		i, kind := i, kind
		g.Go(func() error {
			reports[i], errs[i] = b.Build(ctx, kind)
			return errs[i]
		})
	}
	_ = g.Wait() // errs holds every failure, not just the first

	var done []*Report
	for _, r := range reports {
		if r != nil {
			done = append(done, r)
		}
	}
	return done, errors.Join(errs...)
}
