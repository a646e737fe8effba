package digeststore

import (
	"context"

	"github.com/dmitrymomot/securelab/pkg/digest"
)

// Backend persists digest records by key.
// Implementations must handle concurrent access safely, keep keys in first-insertion
// order and make Put atomic: a failed Put leaves the previous record in place.
type Backend interface {
	// Put inserts or overwrites the record at key. Overwrites keep the key's position.
	Put(ctx context.Context, key string, rec digest.Record) error
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) (digest.Record, error)
	// Keys lists keys in first-insertion order.
	Keys(ctx context.Context) ([]string, error)
	// Len returns the number of stored keys.
	Len(ctx context.Context) (int, error)
}
