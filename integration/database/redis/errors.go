package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL, use REDIS_URL env var")
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the retry budget")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")

	// ErrCorruptRecord means a stored digest record could not be decoded.
	ErrCorruptRecord = errors.New("corrupt digest record in redis")
)
