// Package redis provides Redis client initialization, health checking and a
// Redis-backed digeststore.Backend.
//
// # Connecting
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		RetryAttempts:  3,
//		RetryInterval:  time.Second,
//		ConnectTimeout: 30 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Connect validates the URL (redis:// or rediss://), then pings with exponential
// backoff until Redis answers or the attempts/timeout run out.
//
// # Digest Records
//
//	backend := redis.NewDigestBackend(client, cfg.KeyPrefix)
//	store := digeststore.New(digeststore.WithBackend(backend))
//
// Records live in a hash; key order lives in a sorted set scored by an
// insertion counter, so Keys returns first-insertion order like the in-memory
// backend. Overwrites keep the original position.
//
// # Error Handling
//
//   - ErrEmptyConnectionURL: no URL configured
//   - ErrFailedToParseRedisConnString: malformed URL
//   - ErrRedisNotReady: Redis did not answer within the retry budget
//   - ErrHealthcheckFailed: a health check ping failed
//   - ErrCorruptRecord: a stored record payload failed to decode
package redis
