package randtoken

import "errors"

var (
	// ErrEntropySourceUnavailable is returned when the secure random source is missing or fails to deliver bytes.
	ErrEntropySourceUnavailable = errors.New("secure random source unavailable")
	// ErrInvalidSize is returned when a generator is configured with a non-positive token size.
	ErrInvalidSize = errors.New("token size must be positive")
)
