// Package tables loads and writes the bibliographic source tables.
//
// Tables are CSV files with a header row. Columns are located by name, so
// column order in the file does not matter. Rows are validated and defaulted
// here, once, so consumers work with fully-typed records.
package tables

import (
	"path/filepath"

	"github.com/matsen/scinet/internal/record"
)

// Table names, used in errors and reports.
const (
	TablePapers       = "papers"
	TableAuthors      = "authors"
	TablePaperAuthors = "paper_authors"
	TableReferences   = "paper_references"
)

// File names within a data directory.
const (
	PapersFile       = "papers.csv"
	AuthorsFile      = "authors.csv"
	PaperAuthorsFile = "paper_author_affiliations.csv"
	ReferencesFile   = "paper_references.csv"
)

// Column names.
const (
	ColPaperID          = "PaperId"
	ColTitle            = "Title"
	ColYear             = "Year"
	ColCitationCount    = "CitationCount"
	ColFieldsOfStudy    = "FieldsOfStudy"
	ColAuthorID         = "AuthorId"
	ColDisplayName      = "DisplayName"
	ColOpenAlexID       = "OpenAlexId"
	ColAuthorSequence   = "AuthorSequenceNumber"
	ColPaperReferenceID = "PaperReferenceId"
)

// Snapshot holds the four source tables. A snapshot is read-only once loaded;
// builders never modify it.
type Snapshot struct {
	Papers       []record.Paper
	Authors      []record.Author
	PaperAuthors []record.PaperAuthorLink
	References   []record.PaperReferenceLink
}

// LoadReport summarizes one table load.
type LoadReport struct {
	Table     string `json:"table"`
	Path      string `json:"path"`
	Rows      int    `json:"rows"`
	Malformed int    `json:"malformed"` // Fields that degraded to a default value
	Skipped   int    `json:"skipped"`   // Rows dropped for lacking an identifier
}

// Paths locates the four table files in a data directory.
type Paths struct {
	Papers       string
	Authors      string
	PaperAuthors string
	References   string
}

// PathsIn returns the standard table paths inside dir.
func PathsIn(dir string) Paths {
	return Paths{
		Papers:       filepath.Join(dir, PapersFile),
		Authors:      filepath.Join(dir, AuthorsFile),
		PaperAuthors: filepath.Join(dir, PaperAuthorsFile),
		References:   filepath.Join(dir, ReferencesFile),
	}
}
