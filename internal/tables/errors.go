package tables

import (
	"errors"
	"fmt"
)

// ErrMissingInput matches every *MissingInputError.
var ErrMissingInput = errors.New("required input missing")

// MissingInputError reports a required table file that does not exist.
type MissingInputError struct {
	Table string // Table name, e.g. "papers"
	Path  string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing %s table: %s", e.Table, e.Path)
}

// Is lets errors.Is(err, ErrMissingInput) match.
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// ColumnError reports a required column absent from a table header.
type ColumnError struct {
	Table  string
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s table has no %q column", e.Table, e.Column)
}
