package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by the document store when a key is absent.
	ErrNotFound = errors.New("document not found")

	// ErrStorageUnavailable is returned when the storage probe fails.
	// Read paths degrade to empty results instead of surfacing it.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrTermRequired is returned when a search term is blank after trimming.
	ErrTermRequired = errors.New("search term is required")
)

// ValidationError aborts a save. It carries every field check that failed,
// not just the first one.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid entry: " + strings.Join(e.Messages, "; ")
}

// ImportFormatError rejects an entire bulk-import payload before any
// record is attempted. Index is -1 for payload-level failures.
type ImportFormatError struct {
	Index  int
	Reason string
}

func (e *ImportFormatError) Error() string {
	if e.Index < 0 {
		return "invalid import payload: " + e.Reason
	}
	return fmt.Sprintf("invalid import payload: entry %d: %s", e.Index, e.Reason)
}
