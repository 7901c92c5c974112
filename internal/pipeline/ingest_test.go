package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/scinet/internal/config"
	"github.com/matsen/scinet/internal/openalex"
	"github.com/matsen/scinet/internal/tables"
)

type fakeSource struct {
	inst      openalex.Institution
	instErr   error
	works     []openalex.Work
	worksErr  error
	gotInstID string
}

func (f *fakeSource) FindInstitution(ctx context.Context, query string) (openalex.Institution, error) {
	return f.inst, f.instErr
}

func (f *fakeSource) FetchWorks(ctx context.Context, institutionID string, yearFrom, yearTo, maxWorks int) ([]openalex.Work, error) {
	f.gotInstID = institutionID
	return f.works, f.worksErr
}

func sampleWorks() []openalex.Work {
	title := "Graph Learning"
	year := 2021
	return []openalex.Work{
		{
			ID:              "https://openalex.org/W1",
			Title:           &title,
			PublicationYear: &year,
			CitedByCount:    3,
			Authorships: []openalex.Authorship{
				{AuthorPosition: "first", Author: &openalex.AuthorStub{ID: "https://openalex.org/A1", DisplayName: "Ada"}},
				{AuthorPosition: "last", Author: &openalex.AuthorStub{ID: "https://openalex.org/A2", DisplayName: "Grace"}},
			},
			ReferencedWorks: []string{"https://openalex.org/W2"},
			Topics:          []openalex.Topic{{DisplayName: "Computer Vision"}},
		},
		{ID: "https://openalex.org/W2", PublicationYear: &year},
	}
}

func TestIngest_WritesTablesAndRaw(t *testing.T) {
	cfg := config.Default(t.TempDir())
	b, _ := observedBuilder(cfg)
	src := &fakeSource{inst: openalex.Institution{ID: "I42", DisplayName: "Somewhere"}, works: sampleWorks()}

	report, err := b.Ingest(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "I42", src.gotInstID)
	assert.Equal(t, 2, report.Papers)
	assert.Equal(t, 2, report.Authors)
	assert.Equal(t, 2, report.PaperAuthors)
	assert.Equal(t, 1, report.References)
	assert.False(t, report.Partial)
	assert.FileExists(t, filepath.Join(cfg.RawPath(), RawWorksFile))

	snap, _, err := tables.LoadSnapshot(tables.PathsIn(cfg.DataPath()), tables.NeedAll)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", snap.Papers[0].FieldsOfStudy)
	assert.Equal(t, "General", snap.Papers[1].FieldsOfStudy)
	assert.Equal(t, "1", snap.PaperAuthors[0].AuthorID)
}

func TestIngest_InstitutionFallback(t *testing.T) {
	cfg := config.Default(t.TempDir())
	b, logs := observedBuilder(cfg)
	src := &fakeSource{instErr: errors.New("offline"), works: sampleWorks()}

	report, err := b.Ingest(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, cfg.OpenAlex.InstitutionID, src.gotInstID)
	assert.Equal(t, cfg.OpenAlex.InstitutionID, report.InstitutionID)
	assert.Equal(t, 1, logs.FilterMessageSnippet("institution search failed").Len())
}

func TestIngest_PartialDownload(t *testing.T) {
	cfg := config.Default(t.TempDir())
	b, _ := observedBuilder(cfg)
	src := &fakeSource{inst: openalex.Institution{ID: "I1"}, works: sampleWorks()[:1], worksErr: errors.New("page 2 failed")}

	report, err := b.Ingest(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, report.Partial)
	assert.Equal(t, 1, report.Works)
}

func TestIngest_NoWorks(t *testing.T) {
	cfg := config.Default(t.TempDir())
	b, _ := observedBuilder(cfg)

	_, err := b.Ingest(context.Background(), &fakeSource{inst: openalex.Institution{ID: "I1"}})
	assert.ErrorIs(t, err, ErrNoWorks)

	_, statErr := os.Stat(cfg.DataPath())
	assert.True(t, os.IsNotExist(statErr), "no tables are written for an empty download")
}

func TestRebuildCatalog(t *testing.T) {
	cfg := setupProject(t, 1)
	b, _ := observedBuilder(cfg)

	counts, err := b.RebuildCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, counts.Papers)
	assert.Equal(t, 3, counts.Authors)
	assert.Equal(t, 8, counts.PaperAuthors)
	assert.Equal(t, 4, counts.References)
	assert.FileExists(t, cfg.CatalogPath())
}
