// Package export persists pipeline artifacts without exposing partial writes.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrSerialization matches every *SerializationError.
var ErrSerialization = errors.New("serialization failed")

// SerializationError reports a failure to persist an artifact.
// The destination file, if it existed, is left untouched.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSerialization) match.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// WriteFile writes to a temporary file next to path and renames it over path
// once write has succeeded and the data is synced.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &SerializationError{Path: path, Err: fmt.Errorf("creating directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &SerializationError{Path: path, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	if err := buf.Flush(); err != nil {
		return &SerializationError{Path: path, Err: fmt.Errorf("flushing: %w", err)}
	}
	if err := tmp.Sync(); err != nil {
		return &SerializationError{Path: path, Err: fmt.Errorf("syncing: %w", err)}
	}
	if err := tmp.Chmod(0644); err != nil {
		return &SerializationError{Path: path, Err: fmt.Errorf("setting permissions: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &SerializationError{Path: path, Err: fmt.Errorf("closing temp file: %w", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &SerializationError{Path: path, Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	return nil
}

// WriteJSON writes v as indented JSON using WriteFile.
func WriteJSON(path string, v any) error {
	return WriteFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	})
}
