package digeststore

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/dmitrymomot/securelab/core/logger"
	"github.com/dmitrymomot/securelab/pkg/digest"
)

// DefaultKeyPrefix prefixes generated keys.
const DefaultKeyPrefix = "user"

// Store digests structured data and keeps the records by key.
// A repeated key silently replaces the earlier record.
type Store struct {
	backend   Backend
	digester  *digest.Digester
	logger    *slog.Logger
	keyPrefix string
}

// Option configures a Store.
type Option func(*Store)

// WithBackend sets the persistence backend. Defaults to a MemoryBackend.
func WithBackend(b Backend) Option {
	return func(s *Store) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithDigester sets the digester. Defaults to canonical JSON + SHA-256.
func WithDigester(d *digest.Digester) Option {
	return func(s *Store) {
		if d != nil {
			s.digester = d
		}
	}
}

// WithLogger sets the logger for store operations.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithKeyPrefix sets the prefix used by NewKey.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// New creates a Store. Without options it keeps records in memory.
func New(opts ...Option) *Store {
	s := &Store{
		backend:   NewMemoryBackend(),
		digester:  digest.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		keyPrefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Digest computes the record for data without storing it.
func (s *Store) Digest(data any) (digest.Record, error) {
	return s.digester.Digest(data)
}

// Put digests data and stores the record at key, replacing any previous record.
// The digest is computed before anything is written, so a serialization or hash
// failure leaves the store unchanged.
func (s *Store) Put(ctx context.Context, key string, data any) (digest.Record, error) {
	if key == "" {
		return digest.Record{}, ErrInvalidKey
	}

	rec, err := s.digester.Digest(data)
	if err != nil {
		s.logger.WarnContext(ctx, "digest failed",
			logger.Component("digeststore"),
			logger.StorageKey(key),
			logger.Error(err),
		)
		return digest.Record{}, err
	}

	if err := s.backend.Put(ctx, key, rec); err != nil {
		s.logger.ErrorContext(ctx, "store write failed",
			logger.Component("digeststore"),
			logger.StorageKey(key),
			logger.Error(err),
		)
		return digest.Record{}, errors.Join(ErrBackend, err)
	}

	s.logger.DebugContext(ctx, "record stored",
		logger.Component("digeststore"),
		logger.StorageKey(key),
		logger.Algorithm(rec.Algorithm),
	)

	return rec, nil
}

// PutNew stores data under a freshly generated key and returns the key.
func (s *Store) PutNew(ctx context.Context, data any) (string, digest.Record, error) {
	key := s.NewKey()
	rec, err := s.Put(ctx, key, data)
	if err != nil {
		return "", digest.Record{}, err
	}
	return key, rec, nil
}

// Get returns the record stored at key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (digest.Record, error) {
	rec, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return digest.Record{}, err
		}
		return digest.Record{}, errors.Join(ErrBackend, err)
	}
	return rec, nil
}

// Keys lists stored keys in first-insertion order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	return keys, nil
}

// Len returns the number of stored keys.
func (s *Store) Len(ctx context.Context) (int, error) {
	n, err := s.backend.Len(ctx)
	if err != nil {
		return 0, errors.Join(ErrBackend, err)
	}
	return n, nil
}

// NewKey returns "<prefix>_<ULID>". ULIDs sort by creation time.
func (s *Store) NewKey() string {
	return s.keyPrefix + "_" + ulid.Make().String()
}
