package password

import "errors"

var (
	// ErrEmptyInput is returned when hashing an empty password.
	ErrEmptyInput = errors.New("password is empty")
	// ErrInvalidHash is returned for malformed or unsupported encoded hashes.
	ErrInvalidHash = errors.New("invalid argon2id hash format")
	// ErrSaltGeneration is returned when the salt source fails.
	ErrSaltGeneration = errors.New("failed to generate salt")
)
