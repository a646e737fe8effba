package session

import "errors"

var (
	// ErrInvalidInput is returned when the user ID is empty after trimming whitespace.
	ErrInvalidInput = errors.New("user ID is required")
	// ErrTokenGeneration is returned when a session token cannot be generated.
	ErrTokenGeneration = errors.New("failed to generate token")
)
