package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/securelab/core/digeststore"
	"github.com/dmitrymomot/securelab/pkg/digest"
)

// DB is the subset of *pgxpool.Pool and pgx.Tx used by DigestBackend.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DigestBackend stores digest records in the digest_records table.
// When ctx carries a transaction (see WithTx) queries run inside it.
type DigestBackend struct {
	db DB
}

var _ digeststore.Backend = (*DigestBackend)(nil)

// NewDigestBackend creates a backend over db. Run Migrate first.
func NewDigestBackend(db DB) *DigestBackend {
	return &DigestBackend{db: db}
}

func (b *DigestBackend) conn(ctx context.Context) DB {
	return queryer(ctx, b.db)
}

// Put upserts the record. seq is assigned on first insert only, which keeps
// overwritten keys at their original position.
func (b *DigestBackend) Put(ctx context.Context, key string, rec digest.Record) error {
	const q = `INSERT INTO digest_records (key, digest_hex, algorithm, computed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			digest_hex = EXCLUDED.digest_hex,
			algorithm = EXCLUDED.algorithm,
			computed_at = EXCLUDED.computed_at`

	_, err := b.conn(ctx).Exec(ctx, q, key, rec.DigestHex, rec.Algorithm, rec.ComputedAt)
	return err
}

func (b *DigestBackend) Get(ctx context.Context, key string) (digest.Record, error) {
	const q = `SELECT digest_hex, algorithm, computed_at FROM digest_records WHERE key = $1`

	var rec digest.Record
	err := b.conn(ctx).QueryRow(ctx, q, key).Scan(&rec.DigestHex, &rec.Algorithm, &rec.ComputedAt)
	if err != nil {
		if IsNotFoundError(err) {
			return digest.Record{}, digeststore.ErrNotFound
		}
		return digest.Record{}, err
	}
	return rec, nil
}

func (b *DigestBackend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.conn(ctx).Query(ctx, `SELECT key FROM digest_records ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (b *DigestBackend) Len(ctx context.Context) (int, error) {
	var n int
	err := b.conn(ctx).QueryRow(ctx, `SELECT count(*) FROM digest_records`).Scan(&n)
	return n, err
}
