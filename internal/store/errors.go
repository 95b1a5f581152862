package store

import (
	"errors"
	"strings"
)

// Error taxonomy. Callers match with errors.Is; the record engine
// propagates these unchanged and entity operations either pass them
// through or substitute a safe default.
var (
	// ErrStoreUnavailable means the database could not be opened or is
	// corrupt. Fatal for the session; nothing here retries.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrConstraint is a unique-index collision on insert.
	ErrConstraint = errors.New("unique constraint violation")

	// ErrNotFound is raised by entity operations that expected a record
	// to exist. The record engine itself never raises it.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is malformed input caught before reaching the store.
	ErrValidation = errors.New("invalid input")

	// ErrImportFormat means a backup snapshot is missing its metadata or
	// carries the wrong application tag.
	ErrImportFormat = errors.New("unrecognized backup format")
)

// isUniqueViolation recognizes the driver's unique-index failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
