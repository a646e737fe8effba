package digest

import "errors"

var (
	// ErrSerialization is returned when data cannot be canonically encoded (cycles, funcs, channels, NaN...).
	ErrSerialization = errors.New("data cannot be canonically serialized")
	// ErrHashFailure is returned when the underlying hash function fails.
	ErrHashFailure = errors.New("hash function failed")
	// ErrEmptyInput is returned when an empty password is hashed.
	ErrEmptyInput = errors.New("input is empty")
)
