package session

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/securelab/core/logger"
	"github.com/dmitrymomot/securelab/pkg/randtoken"
)

// TokenGenerator produces session tokens. *randtoken.Generator satisfies it.
type TokenGenerator interface {
	Generate() (string, error)
}

// Registry holds at most one live session. Creating a session replaces the
// previous one unconditionally; Clear discards it.
// Safe for concurrent use; concurrent writers resolve as last write wins.
type Registry struct {
	mu      sync.RWMutex
	current *Session

	tokens TokenGenerator
	now    func() time.Time
	logger *slog.Logger
}

// NewRegistry creates an empty registry. Tokens come from crypto/rand unless
// WithTokenGenerator is given.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.tokens == nil {
		gen, err := randtoken.New()
		if err != nil {
			return nil, errors.Join(ErrTokenGeneration, err)
		}
		r.tokens = gen
	}

	return r, nil
}

// Create starts a new session for userID, replacing any existing one.
// Returns ErrInvalidInput for a blank userID. On failure the previous session is kept.
func (r *Registry) Create(userID string) (Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Session{}, ErrInvalidInput
	}

	token, err := r.tokens.Generate()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	sess := Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		CreatedAt: time.UnixMilli(r.now().UnixMilli()),
	}

	r.mu.Lock()
	replaced := r.current != nil
	r.current = &sess
	r.mu.Unlock()

	r.logger.Info("session created",
		logger.Component("session"),
		logger.Event("created"),
		logger.UserID(sess.UserID),
		logger.SessionID(sess.ID.String()),
		slog.Bool("replaced", replaced),
	)

	return sess, nil
}

// Current returns a copy of the live session. The boolean is false when there is none.
func (r *Registry) Current() (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return Session{}, false
	}
	return *r.current, true
}

// Clear discards the live session. Calling it with no session is a no-op.
func (r *Registry) Clear() {
	r.mu.Lock()
	prev := r.current
	r.current = nil
	r.mu.Unlock()

	if prev == nil {
		return
	}

	r.logger.Info("session cleared",
		logger.Component("session"),
		logger.Event("cleared"),
		logger.UserID(prev.UserID),
		logger.SessionID(prev.ID.String()),
	)
}
