package session

import (
	"time"

	"github.com/google/uuid"
)

// Session associates a user identifier with an opaque token and its creation time.
// Sessions are values; the Registry hands out copies.
type Session struct {
	// ID is a stable identifier safe to log. It is unrelated to the token.
	ID uuid.UUID

	// UserID is the caller-supplied user identifier, trimmed of surrounding whitespace.
	UserID string

	// Token is 32 random bytes rendered as 64 lowercase hex characters.
	// It is a secret: do not log it.
	Token string

	// CreatedAt has millisecond precision.
	CreatedAt time.Time
}

// CreatedAtMillis returns CreatedAt as milliseconds since the Unix epoch.
func (s Session) CreatedAtMillis() int64 {
	return s.CreatedAt.UnixMilli()
}

// IsZero reports whether s is the empty session.
func (s Session) IsZero() bool {
	return s.Token == ""
}
