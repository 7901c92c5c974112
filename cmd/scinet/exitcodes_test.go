package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/matsen/scinet/internal/export"
	"github.com/matsen/scinet/internal/tables"
)

func TestExitCodeFor(t *testing.T) {
	missing := &tables.MissingInputError{Table: tables.TableReferences, Path: "x.csv"}
	serialization := &export.SerializationError{Path: "out.json", Err: errors.New("disk full")}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"missing input", fmt.Errorf("citation graph: %w", missing), ExitDataError},
		{"missing column", &tables.ColumnError{Table: tables.TablePapers, Column: "Year"}, ExitDataError},
		{"missing file", fmt.Errorf("reading: %w", os.ErrNotExist), ExitDataError},
		{"serialization", serialization, ExitSerializationError},
		{"joined keeps serialization", errors.Join(missing, serialization), ExitSerializationError},
		{"other", errors.New("boom"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString(short) = %q", got)
	}
	if got := truncateString("a much longer title", 10); got != "a much ..." {
		t.Errorf("truncateString(long) = %q", got)
	}
}
