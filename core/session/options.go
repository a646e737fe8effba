package session

import (
	"log/slog"
	"time"
)

// Option configures a Registry.
type Option func(*Registry)

// WithTokenGenerator sets the token source. A nil generator keeps the default.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(r *Registry) {
		if gen != nil {
			r.tokens = gen
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.logger = log
		}
	}
}
