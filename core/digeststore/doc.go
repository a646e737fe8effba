// Package digeststore maps keys to one-way digest records.
//
// Store digests arbitrary structured values with pkg/digest and writes the
// resulting records to a Backend. The default MemoryBackend keeps records in
// process memory in first-insertion order; integration/database/redis and
// integration/database/pg provide persistent backends with the same contract.
//
//	store := digeststore.New(digeststore.WithLogger(log))
//
//	rec, err := store.Put(ctx, "profile", map[string]any{"name": "alice"})
//	if errors.Is(err, digest.ErrSerialization) {
//		// nothing was written
//	}
//
//	rec, err = store.Get(ctx, "profile")
//	if errors.Is(err, digeststore.ErrNotFound) {
//		// absent
//	}
//
// Putting the same key twice overwrites the first record without error.
// Keys can be generated with NewKey, which returns "user_<ULID>" by default.
package digeststore
