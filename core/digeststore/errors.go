package digeststore

import "errors"

var (
	// ErrNotFound is returned when no record exists for a key.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidKey is returned when a record is stored under an empty key.
	ErrInvalidKey = errors.New("storage key is required")
	// ErrBackend is returned when the persistence backend fails.
	ErrBackend = errors.New("storage backend failure")
)
