package digeststore

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/securelab/pkg/digest"
)

// MemoryBackend keeps records in process memory. Nothing survives a restart.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]digest.Record
	order   []string

	writes     atomic.Int64
	overwrites atomic.Int64
}

// MemoryStats provides observability counters for a MemoryBackend.
type MemoryStats struct {
	Writes     int64 // Total successful Put calls
	Overwrites int64 // Put calls that replaced an existing record
	Keys       int   // Current number of keys
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]digest.Record),
	}
}

// Put stores rec under key. Overwriting keeps the key's original position in Keys.
func (m *MemoryBackend) Put(ctx context.Context, key string, rec digest.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[key]; exists {
		m.overwrites.Add(1)
	} else {
		m.order = append(m.order, key)
	}
	m.records[key] = rec
	m.writes.Add(1)
	return nil
}

// Get returns the record for key or ErrNotFound.
func (m *MemoryBackend) Get(ctx context.Context, key string) (digest.Record, error) {
	if err := ctx.Err(); err != nil {
		return digest.Record{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[key]
	if !ok {
		return digest.Record{}, ErrNotFound
	}
	return rec, nil
}

// Keys returns a copy of all keys in first-insertion order.
func (m *MemoryBackend) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.order), nil
}

// Len returns the number of stored keys.
func (m *MemoryBackend) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records), nil
}

// Stats returns current counters. Safe to call at any time.
func (m *MemoryBackend) Stats() MemoryStats {
	m.mu.RLock()
	keys := len(m.records)
	m.mu.RUnlock()

	return MemoryStats{
		Writes:     m.writes.Load(),
		Overwrites: m.overwrites.Load(),
		Keys:       keys,
	}
}
