package tables

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/scinet/internal/record"
)

// writeTable writes raw CSV content into dir/name and returns the path.
func writeTable(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadPapers(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, PapersFile, `PaperId,Title,Year,CitationCount,FieldsOfStudy
W1,Graph Methods,2021,12,Computer Science
W2,,2021.0,,General
W3,Bad Year,unknown,7,Computer Science
W4,Bad Count,2019,lots,
,No Id,2020,1,General
`)

	papers, report, err := LoadPapers(path)
	if err != nil {
		t.Fatalf("LoadPapers() error = %v", err)
	}

	if len(papers) != 4 {
		t.Fatalf("got %d papers, want 4", len(papers))
	}
	if report.Rows != 5 || report.Skipped != 1 || report.Malformed != 2 {
		t.Errorf("report = %+v, want Rows=5 Skipped=1 Malformed=2", report)
	}

	want := []record.Paper{
		{ID: "W1", Title: "Graph Methods", Year: 2021, CitationCount: 12, FieldsOfStudy: "Computer Science"},
		{ID: "W2", Title: "", Year: 2021, CitationCount: 0, FieldsOfStudy: "General"},
		{ID: "W3", Title: "Bad Year", Year: 0, CitationCount: 7, FieldsOfStudy: "Computer Science"},
		{ID: "W4", Title: "Bad Count", Year: 2019, CitationCount: 0, FieldsOfStudy: ""},
	}
	for i := range want {
		if papers[i] != want[i] {
			t.Errorf("papers[%d] = %+v, want %+v", i, papers[i], want[i])
		}
	}
}

func TestLoadPapers_ColumnOrderAndMissingFieldsOfStudy(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, PapersFile, `Year,PaperId,Title
2022,7.0,Reordered
`)

	papers, _, err := LoadPapers(path)
	if err != nil {
		t.Fatalf("LoadPapers() error = %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("got %d papers, want 1", len(papers))
	}
	if papers[0].ID != "7" || papers[0].Year != 2022 || papers[0].FieldsOfStudy != "" {
		t.Errorf("paper = %+v", papers[0])
	}
}

func TestLoadPapers_MissingFile(t *testing.T) {
	_, _, err := LoadPapers(filepath.Join(t.TempDir(), PapersFile))
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
	var missing *MissingInputError
	if !errors.As(err, &missing) || missing.Table != TablePapers {
		t.Errorf("MissingInputError = %+v", missing)
	}
}

func TestLoadPapers_MissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, PapersFile, "PaperId,Title\nW1,x\n")

	_, _, err := LoadPapers(path)
	var colErr *ColumnError
	if !errors.As(err, &colErr) || colErr.Column != ColYear {
		t.Fatalf("error = %v, want ColumnError for Year", err)
	}
}

func TestLoadPaperAuthors_PreservesDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, PaperAuthorsFile, `PaperId,AuthorId,AuthorSequenceNumber
W1,1,first
W1,2,last
W1,2,last
W2,,first
`)

	links, report, err := LoadPaperAuthors(path)
	if err != nil {
		t.Fatalf("LoadPaperAuthors() error = %v", err)
	}
	if len(links) != 3 {
		t.Errorf("got %d links, want 3 (duplicates kept)", len(links))
	}
	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}
}

func TestLoadReferences_CanonicalIDs(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, ReferencesFile, "PaperId,PaperReferenceId\n12.0,13\nW1,W2\n")

	refs, _, err := LoadReferences(path)
	if err != nil {
		t.Fatalf("LoadReferences() error = %v", err)
	}
	want := []record.PaperReferenceLink{{PaperID: "12", ReferenceID: "13"}, {PaperID: "W1", ReferenceID: "W2"}}
	if len(refs) != len(want) {
		t.Fatalf("got %d refs, want %d", len(refs), len(want))
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("refs[%d] = %+v, want %+v", i, refs[i], want[i])
		}
	}
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	paths := PathsIn(t.TempDir())
	snap := &Snapshot{
		Papers:       []record.Paper{{ID: "W1", Title: "Commas, quoted", Year: 2021, CitationCount: 3, FieldsOfStudy: "Computer Science"}},
		Authors:      []record.Author{{ID: "1", DisplayName: "Ada Lovelace", OpenAlexID: "A1"}},
		PaperAuthors: []record.PaperAuthorLink{{PaperID: "W1", AuthorID: "1", Sequence: "first"}},
		References:   []record.PaperReferenceLink{{PaperID: "W1", ReferenceID: "W9"}},
	}

	if err := WriteSnapshot(paths, snap); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}

	got, reports, err := LoadSnapshot(paths, NeedAll)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(reports) != 4 {
		t.Errorf("got %d reports, want 4", len(reports))
	}
	if got.Papers[0] != snap.Papers[0] {
		t.Errorf("paper = %+v, want %+v", got.Papers[0], snap.Papers[0])
	}
	if got.Authors[0] != snap.Authors[0] {
		t.Errorf("author = %+v, want %+v", got.Authors[0], snap.Authors[0])
	}
	if got.PaperAuthors[0] != snap.PaperAuthors[0] {
		t.Errorf("link = %+v", got.PaperAuthors[0])
	}
	if got.References[0] != snap.References[0] {
		t.Errorf("reference = %+v", got.References[0])
	}
}

func TestLoadSnapshot_OnlyRequestedTables(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, PapersFile, "PaperId,Year\nW1,2021\n")
	paths := PathsIn(dir)

	snap, _, err := LoadSnapshot(paths, Need{Papers: true})
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(snap.Papers) != 1 {
		t.Errorf("got %d papers, want 1", len(snap.Papers))
	}

	_, _, err = LoadSnapshot(paths, Need{Papers: true, References: true})
	if !IsMissingInput(err) {
		t.Errorf("error = %v, want missing input for references", err)
	}
}
