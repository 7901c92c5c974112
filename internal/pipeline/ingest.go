package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matsen/scinet/internal/catalog"
	"github.com/matsen/scinet/internal/export"
	"github.com/matsen/scinet/internal/openalex"
	"github.com/matsen/scinet/internal/tables"
)

// RawWorksFile is the raw download inside the raw directory.
const RawWorksFile = "works.json"

// ErrNoWorks is returned when a download yields nothing to normalize.
var ErrNoWorks = errors.New("no works downloaded")

// WorkSource supplies works for an institution. *openalex.Client implements it.
type WorkSource interface {
	FindInstitution(ctx context.Context, query string) (openalex.Institution, error)
	FetchWorks(ctx context.Context, institutionID string, yearFrom, yearTo, maxWorks int) ([]openalex.Work, error)
}

// IngestReport describes one download.
type IngestReport struct {
	RunID         string                   `json:"run_id"`
	InstitutionID string                   `json:"institution_id"`
	Institution   string                   `json:"institution"`
	Works         int                      `json:"works"`
	Partial       bool                     `json:"partial"` // Download stopped early on an error
	RawPath       string                   `json:"raw_path"`
	Normalize     openalex.NormalizeReport `json:"normalize"`
	Papers        int                      `json:"papers"`
	Authors       int                      `json:"authors"`
	PaperAuthors  int                      `json:"paper_authors"`
	References    int                      `json:"references"`
}

// Ingest downloads works for the configured institution, saves the raw
// response and replaces the source tables with the normalized result.
func (b *Builder) Ingest(ctx context.Context, src WorkSource) (*IngestReport, error) {
	oa := b.cfg.OpenAlex
	report := &IngestReport{RunID: uuid.NewString(), InstitutionID: oa.InstitutionID, Institution: oa.Institution}
	log := b.log.With("run_id", report.RunID)

	if oa.Institution != "" {
		inst, err := src.FindInstitution(ctx, oa.Institution)
		if err != nil {
			log.Warn("institution search failed, using configured id", "query", oa.Institution, "institution_id", oa.InstitutionID, "error", err)
		} else {
			report.InstitutionID, report.Institution = inst.ID, inst.DisplayName
		}
	}
	if report.InstitutionID == "" {
		return nil, fmt.Errorf("no institution id: search failed and openalex.institution_id is not set")
	}
	log.Info("downloading works", "institution_id", report.InstitutionID, "institution", report.Institution,
		"year_from", b.cfg.Filter.YearFrom, "year_to", b.cfg.Filter.YearTo, "max_works", oa.MaxWorks)

	works, err := src.FetchWorks(ctx, report.InstitutionID, b.cfg.Filter.YearFrom, b.cfg.Filter.YearTo, oa.MaxWorks)
	if err != nil {
		if len(works) == 0 {
			return nil, fmt.Errorf("downloading works: %w", err)
		}
		log.Warn("download stopped early, keeping works fetched so far", "works", len(works), "error", err)
		report.Partial = true
	}
	if len(works) == 0 {
		return nil, ErrNoWorks
	}
	report.Works = len(works)

	report.RawPath = filepath.Join(b.cfg.RawPath(), RawWorksFile)
	if err := export.WriteJSON(report.RawPath, works); err != nil {
		return nil, err
	}

	snap, norm := openalex.Normalize(works)
	report.Normalize = norm
	if norm.SkippedWorks > 0 || norm.SkippedAuthorships > 0 {
		log.Warn("dropped incomplete records", "works", norm.SkippedWorks, "authorships", norm.SkippedAuthorships)
	}

	if err := tables.WriteSnapshot(tables.PathsIn(b.cfg.DataPath()), snap); err != nil {
		return nil, err
	}
	report.Papers = len(snap.Papers)
	report.Authors = len(snap.Authors)
	report.PaperAuthors = len(snap.PaperAuthors)
	report.References = len(snap.References)

	log.Info("tables written", "papers", report.Papers, "authors", report.Authors,
		"paper_authors", report.PaperAuthors, "references", report.References)
	return report, nil
}

// RebuildCatalog reloads every table and rebuilds the SQLite query index.
func (b *Builder) RebuildCatalog(ctx context.Context) (catalog.Counts, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Counts{}, err
	}

	snap, _, err := tables.LoadSnapshot(tables.PathsIn(b.cfg.DataPath()), tables.NeedAll)
	if err != nil {
		return catalog.Counts{}, err
	}

	db, err := catalog.Open(b.cfg.CatalogPath())
	if err != nil {
		return catalog.Counts{}, err
	}
	defer db.Close()

	counts, err := db.RebuildFromSnapshot(snap)
	if err != nil {
		return catalog.Counts{}, fmt.Errorf("rebuilding catalog: %w", err)
	}
	b.log.Info("catalog rebuilt", "path", b.cfg.CatalogPath(), "papers", counts.Papers, "authors", counts.Authors)
	return counts, nil
}
