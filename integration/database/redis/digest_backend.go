package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/securelab/core/digeststore"
	"github.com/dmitrymomot/securelab/pkg/digest"
)

// DigestBackend stores digest records in Redis.
//
// Layout under prefix:
//
//	<prefix>:records  hash    key -> JSON record
//	<prefix>:order    zset    key scored by first-insertion sequence
//	<prefix>:seq      string  insertion counter
type DigestBackend struct {
	client     redis.UniversalClient
	recordsKey string
	orderKey   string
	seqKey     string
}

var _ digeststore.Backend = (*DigestBackend)(nil)

// NewDigestBackend creates a backend over client using prefix for all Redis keys.
func NewDigestBackend(client redis.UniversalClient, prefix string) *DigestBackend {
	if prefix == "" {
		prefix = "securelab:digest"
	}
	return &DigestBackend{
		client:     client,
		recordsKey: prefix + ":records",
		orderKey:   prefix + ":order",
		seqKey:     prefix + ":seq",
	}
}

// Put writes the record and, for new keys, its position in one MULTI/EXEC.
func (b *DigestBackend) Put(ctx context.Context, key string, rec digest.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// Gaps in the sequence are harmless; only relative order matters.
	seq, err := b.client.Incr(ctx, b.seqKey).Result()
	if err != nil {
		return err
	}

	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, b.recordsKey, key, payload)
		pipe.ZAddNX(ctx, b.orderKey, redis.Z{Score: float64(seq), Member: key})
		return nil
	})
	return err
}

// Get returns digeststore.ErrNotFound for unknown keys and ErrCorruptRecord
// when the stored payload is not a record.
func (b *DigestBackend) Get(ctx context.Context, key string) (digest.Record, error) {
	payload, err := b.client.HGet(ctx, b.recordsKey, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return digest.Record{}, digeststore.ErrNotFound
		}
		return digest.Record{}, err
	}

	var rec digest.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return digest.Record{}, errors.Join(ErrCorruptRecord, err)
	}
	return rec, nil
}

func (b *DigestBackend) Keys(ctx context.Context) ([]string, error) {
	return b.client.ZRange(ctx, b.orderKey, 0, -1).Result()
}

func (b *DigestBackend) Len(ctx context.Context) (int, error) {
	n, err := b.client.HLen(ctx, b.recordsKey).Result()
	return int(n), err
}
