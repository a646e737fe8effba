// Package digest turns arbitrary structured values into one-way digest records.
//
// A value is first serialized to a canonical byte sequence (JSON with sorted map
// keys by default, or RFC 8949 deterministic CBOR), then hashed with SHA-256 and
// rendered as lowercase hex.
//
//	d := digest.New()
//	rec, err := d.Digest(map[string]any{"name": "alice", "age": 30})
//	if errors.Is(err, digest.ErrSerialization) {
//		// cyclic or unsupported data
//	}
//	fmt.Println(rec.DigestHex, rec.Algorithm)
//
// DigestHex is reproducible for identical input bytes. ComputedAt is taken from
// the clock on every call and is not.
//
// The "simulated encryption" label is historical: a digest cannot be reversed.
//
// # Password Hashing
//
// HashPassword appends the public PasswordSalt and hashes the result. This is a
// teaching shortcut with no real protection against precomputed tables; the
// password package provides argon2id with per-password salts.
package digest
