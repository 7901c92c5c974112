// Package catalog maintains a throwaway SQLite index over the source tables.
// The CSV tables stay the source of truth; the index is rebuilt from them on
// demand and only serves queries.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/matsen/scinet/internal/record"
	"github.com/matsen/scinet/internal/tables"
	_ "modernc.org/sqlite"
)

// ErrNotBuilt is returned by OpenExisting when no index has been built yet.
var ErrNotBuilt = errors.New("catalog not built (run 'scinet rebuild')")

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Counts holds row counts per table.
type Counts struct {
	Papers       int `json:"papers"`
	Authors      int `json:"authors"`
	PaperAuthors int `json:"paper_authors"`
	References   int `json:"references"`
}

// Open opens or creates a catalog at path, creating parent directories.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// OpenExisting opens a catalog that must already exist.
func OpenExisting(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotBuilt
		}
		return nil, err
	}
	return Open(path)
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			citation_count INTEGER NOT NULL,
			fields_of_study TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(year);

		CREATE TABLE IF NOT EXISTS authors (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			openalex_id TEXT
		);

		-- Rows are kept as-is, duplicates included
		CREATE TABLE IF NOT EXISTS paper_authors (
			paper_id TEXT NOT NULL,
			author_id TEXT NOT NULL,
			sequence TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_paper_authors_author ON paper_authors(author_id);

		CREATE TABLE IF NOT EXISTS paper_references (
			paper_id TEXT NOT NULL,
			reference_id TEXT NOT NULL
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(id UNINDEXED, title);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromSnapshot clears the catalog and loads every table from snap in
// one transaction. Papers and authors with a repeated id keep the first row.
func (d *DB) RebuildFromSnapshot(snap *tables.Snapshot) (Counts, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return Counts{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"papers", "papers_fts", "authors", "paper_authors", "paper_references"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return Counts{}, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	if err := insertAll(tx,
		`INSERT OR IGNORE INTO papers (id, title, year, citation_count, fields_of_study) VALUES (?, ?, ?, ?, ?)`,
		len(snap.Papers), func(i int) []any {
			p := snap.Papers[i]
			return []any{p.ID, p.Title, p.Year, p.CitationCount, p.FieldsOfStudy}
		}); err != nil {
		return Counts{}, fmt.Errorf("inserting papers: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO papers_fts (id, title) SELECT id, title FROM papers`); err != nil {
		return Counts{}, fmt.Errorf("indexing titles: %w", err)
	}

	if err := insertAll(tx,
		`INSERT OR IGNORE INTO authors (id, display_name, openalex_id) VALUES (?, ?, ?)`,
		len(snap.Authors), func(i int) []any {
			a := snap.Authors[i]
			return []any{a.ID, a.DisplayName, a.OpenAlexID}
		}); err != nil {
		return Counts{}, fmt.Errorf("inserting authors: %w", err)
	}

	if err := insertAll(tx,
		`INSERT INTO paper_authors (paper_id, author_id, sequence) VALUES (?, ?, ?)`,
		len(snap.PaperAuthors), func(i int) []any {
			l := snap.PaperAuthors[i]
			return []any{l.PaperID, l.AuthorID, l.Sequence}
		}); err != nil {
		return Counts{}, fmt.Errorf("inserting paper authors: %w", err)
	}

	if err := insertAll(tx,
		`INSERT INTO paper_references (paper_id, reference_id) VALUES (?, ?)`,
		len(snap.References), func(i int) []any {
			r := snap.References[i]
			return []any{r.PaperID, r.ReferenceID}
		}); err != nil {
		return Counts{}, fmt.Errorf("inserting references: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("committing: %w", err)
	}
	return d.Counts()
}

// insertAll runs a prepared insert once per row.
func insertAll(tx *sql.Tx, query string, n int, row func(i int) []any) error {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(row(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// Counts returns the number of rows in each table.
func (d *DB) Counts() (Counts, error) {
	var c Counts
	err := d.db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM papers),
		(SELECT COUNT(*) FROM authors),
		(SELECT COUNT(*) FROM paper_authors),
		(SELECT COUNT(*) FROM paper_references)`).Scan(&c.Papers, &c.Authors, &c.PaperAuthors, &c.References)
	if err != nil {
		return Counts{}, fmt.Errorf("counting rows: %w", err)
	}
	return c, nil
}

// PaperQuery filters ListPapers. Zero values mean no constraint.
type PaperQuery struct {
	YearFrom int
	YearTo   int
	Title    string // Full-text match on title
	AuthorID string // Papers with this author
	Limit    int
	Offset   int
}

// ListPapers returns papers matching q ordered by year then id, and the total
// number of matches ignoring Limit and Offset.
func (d *DB) ListPapers(q PaperQuery) ([]record.Paper, int, error) {
	where := " WHERE 1=1"
	var args []any

	if q.YearFrom > 0 {
		where += " AND year >= ?"
		args = append(args, q.YearFrom)
	}
	if q.YearTo > 0 {
		where += " AND year <= ?"
		args = append(args, q.YearTo)
	}
	if match := prepareFTSQuery(q.Title); match != "" {
		where += " AND id IN (SELECT id FROM papers_fts WHERE papers_fts MATCH ?)"
		args = append(args, match)
	}
	if q.AuthorID != "" {
		where += " AND id IN (SELECT paper_id FROM paper_authors WHERE author_id = ?)"
		args = append(args, q.AuthorID)
	}

	var total int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM papers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting papers: %w", err)
	}

	query := `SELECT id, title, year, citation_count, fields_of_study FROM papers` + where + ` ORDER BY year, id`
	query, args = paginate(query, args, q.Limit, q.Offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	papers := []record.Paper{}
	for rows.Next() {
		var p record.Paper
		var fields sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &p.Year, &p.CitationCount, &fields); err != nil {
			return nil, 0, err
		}
		p.FieldsOfStudy = fields.String
		papers = append(papers, p)
	}
	return papers, total, rows.Err()
}

// AuthorSummary is an author with the number of paper-author rows naming them.
type AuthorSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	PaperCount  int    `json:"paperCount"`
}

// ListAuthors returns authors ordered by paper count (descending) then id,
// and the total number of authors.
func (d *DB) ListAuthors(limit, offset int) ([]AuthorSummary, int, error) {
	var total int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting authors: %w", err)
	}

	query := `
		SELECT a.id, a.display_name, COUNT(pa.paper_id) AS n
		FROM authors a
		LEFT JOIN paper_authors pa ON pa.author_id = a.id
		GROUP BY a.id, a.display_name
		ORDER BY n DESC, a.id`
	query, args := paginate(query, nil, limit, offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing authors: %w", err)
	}
	defer rows.Close()

	authors := []AuthorSummary{}
	for rows.Next() {
		var a AuthorSummary
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.PaperCount); err != nil {
			return nil, 0, err
		}
		authors = append(authors, a)
	}
	return authors, total, rows.Err()
}

// GetAuthor retrieves an author by id. Returns nil if not found.
func (d *DB) GetAuthor(id string) (*record.Author, error) {
	var a record.Author
	var oa sql.NullString
	err := d.db.QueryRow(`SELECT id, display_name, openalex_id FROM authors WHERE id = ?`, id).
		Scan(&a.ID, &a.DisplayName, &oa)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting author %s: %w", id, err)
	}
	a.OpenAlexID = oa.String
	return &a, nil
}

func paginate(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 && offset <= 0 {
		return query, args
	}
	if limit <= 0 {
		limit = -1 // SQLite: no upper bound
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if offset > 0 {
		query += " OFFSET ?"
		args = append(args, offset)
	}
	return query, args
}

// prepareFTSQuery turns free text into an FTS5 query that matches every
// term. Each whitespace-separated term is quoted as a phrase so punctuation
// and operator characters are never parsed as syntax. Terms without a letter
// or digit are dropped; the result is empty when nothing searchable remains.
func prepareFTSQuery(query string) string {
	var terms []string
	for _, term := range strings.Fields(query) {
		if strings.IndexFunc(term, isSearchable) < 0 {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}

func isSearchable(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
