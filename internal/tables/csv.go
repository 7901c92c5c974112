package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// header maps column names to their index in a row.
type header map[string]int

// get returns the named field, or "" if the column is absent or the row short.
func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (h header) has(col string) bool {
	_, ok := h[col]
	return ok
}

// readCSV opens a table and calls fn for each data row.
func readCSV(table, path string, required []string, fn func(h header, row []string)) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &MissingInputError{Table: table, Path: path}
		}
		return fmt.Errorf("opening %s table: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; missing fields read as ""
	r.LazyQuotes = true

	first, err := r.Read()
	if err == io.EOF {
		return &ColumnError{Table: table, Column: required[0]}
	}
	if err != nil {
		return fmt.Errorf("reading %s header: %w", table, err)
	}

	h := make(header, len(first))
	for i, name := range first {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		h[name] = i
	}
	for _, col := range required {
		if !h.has(col) {
			return &ColumnError{Table: table, Column: col}
		}
	}

	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("parsing %s line %d: %w", table, line, err)
		}
		fn(h, row)
	}
	return nil
}

// writeCSV writes a header and rows to w.
func writeCSV(w io.Writer, cols []string, rows func(emit func(...string) error) error) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	if err := rows(func(fields ...string) error {
		return cw.Write(fields)
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
