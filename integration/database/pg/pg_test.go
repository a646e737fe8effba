package pg_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securelab/core/digeststore"
	"github.com/dmitrymomot/securelab/core/logger"
	"github.com/dmitrymomot/securelab/integration/database/pg"
)

func TestConnect_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty connection string", func(t *testing.T) {
		t.Parallel()
		_, err := pg.Connect(ctx, pg.Config{})
		assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)
	})

	t.Run("malformed connection string", func(t *testing.T) {
		t.Parallel()
		_, err := pg.Connect(ctx, pg.Config{ConnectionString: "postgres://%zz"})
		assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
	})
}

func TestTxContext(t *testing.T) {
	t.Parallel()

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		tx, ok := pg.TxFromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, tx)
	})

	t.Run("nil tx leaves context unchanged", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		assert.Equal(t, ctx, pg.WithTx(ctx, nil))
	})
}

type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

type beginner struct {
	tx  pgx.Tx
	err error
}

func (b beginner) Begin(context.Context) (pgx.Tx, error) { return b.tx, b.err }

func TestInTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()
		tx := &fakeTx{}
		err := pg.InTx(ctx, beginner{tx: tx}, func(ctx context.Context) error {
			got, ok := pg.TxFromContext(ctx)
			assert.True(t, ok)
			assert.Same(t, tx, got)
			return nil
		})
		require.NoError(t, err)
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()
		tx := &fakeTx{}
		cause := errors.New("write rejected")
		err := pg.InTx(ctx, beginner{tx: tx}, func(context.Context) error { return cause })
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, pg.ErrTxFailed)
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()
		called := false
		err := pg.InTx(ctx, beginner{err: errors.New("pool closed")}, func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, pg.ErrTxFailed)
		assert.False(t, called)
	})

	t.Run("commit failure", func(t *testing.T) {
		t.Parallel()
		tx := &fakeTx{commitErr: errors.New("serialization failure")}
		err := pg.InTx(ctx, beginner{tx: tx}, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, pg.ErrTxFailed)
	})
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()
	assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	assert.False(t, pg.IsNotFoundError(context.Canceled))
}

// TestDigestBackend runs against a real database when PG_TEST_URL is set.
func TestDigestBackend(t *testing.T) {
	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{
		ConnectionString: url,
		RetryAttempts:    1,
		RetryInterval:    100 * time.Millisecond,
		MigrationsTable:  "schema_migrations",
	}

	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, cfg, logger.Discard()))
	require.NoError(t, pg.Healthcheck(pool)(ctx))

	_, err = pool.Exec(ctx, `TRUNCATE digest_records`)
	require.NoError(t, err)

	store := digeststore.New(digeststore.WithBackend(pg.NewDigestBackend(pool)))

	_, err = store.Put(ctx, "b", map[string]int{"v": 1})
	require.NoError(t, err)
	_, err = store.Put(ctx, "a", map[string]int{"v": 2})
	require.NoError(t, err)
	second, err := store.Put(ctx, "b", map[string]int{"v": 3})
	require.NoError(t, err)

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, second.DigestHex, got.DigestHex)
	assert.Equal(t, second.Algorithm, got.Algorithm)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, keys)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, digeststore.ErrNotFound)

	t.Run("rolled back transaction writes nothing", func(t *testing.T) {
		abort := errors.New("abort")
		err := pg.InTx(ctx, pool, func(ctx context.Context) error {
			if _, err := store.Put(ctx, "tx-key", "data"); err != nil {
				return err
			}
			return abort
		})
		require.ErrorIs(t, err, abort)

		_, err = store.Get(ctx, "tx-key")
		assert.ErrorIs(t, err, digeststore.ErrNotFound)
	})

	t.Run("committed transaction is visible", func(t *testing.T) {
		err := pg.InTx(ctx, pool, func(ctx context.Context) error {
			_, err := store.Put(ctx, "tx-commit", "data")
			return err
		})
		require.NoError(t, err)

		_, err = store.Get(ctx, "tx-commit")
		assert.NoError(t, err)
	})
}
