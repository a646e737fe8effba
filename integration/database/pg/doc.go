// Package pg provides PostgreSQL connection management, embedded schema
// migrations and a Postgres-backed digeststore.Backend.
//
// # Connecting and Migrating
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//
// Connect retries with exponential backoff (sethvargo/go-retry) and verifies the
// pool with a ping. Migrate applies the SQL files embedded from migrations/
// through goose, using pgx's database/sql adapter.
//
// # Digest Records
//
//	store := digeststore.New(digeststore.WithBackend(pg.NewDigestBackend(pool)))
//
// Records are upserted by key. A BIGSERIAL column assigned on first insert gives
// Keys its first-insertion order.
//
// # Transactions
//
// DigestBackend runs its queries inside any pgx.Tx attached with WithTx. InTx
// wraps the begin/commit/rollback cycle:
//
//	err := pg.InTx(ctx, pool, func(ctx context.Context) error {
//		_, err := store.Put(ctx, key, data)
//		return err
//	})
//
// Begin and commit failures wrap ErrTxFailed.
package pg
