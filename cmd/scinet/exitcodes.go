package main

import (
	"errors"
	"os"

	"github.com/matsen/scinet/internal/catalog"
	"github.com/matsen/scinet/internal/export"
	"github.com/matsen/scinet/internal/pipeline"
	"github.com/matsen/scinet/internal/tables"
)

// Exit codes.
const (
	ExitSuccess            = 0 // Success
	ExitError              = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError        = 2 // Configuration error (unreadable or invalid scinet.yml)
	ExitDataError          = 3 // Data error (missing table, missing column, nothing downloaded)
	ExitSerializationError = 4 // Output could not be written; previous output is intact
)

// exitCodeFor maps an error returned by a command to its exit code.
func exitCodeFor(err error) int {
	var colErr *tables.ColumnError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, export.ErrSerialization):
		return ExitSerializationError
	case errors.Is(err, tables.ErrMissingInput),
		errors.As(err, &colErr),
		errors.Is(err, catalog.ErrNotBuilt),
		errors.Is(err, pipeline.ErrNoWorks),
		errors.Is(err, os.ErrNotExist):
		return ExitDataError
	default:
		return ExitError
	}
}
