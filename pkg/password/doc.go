// Package password hashes passwords with argon2id and a per-password random salt.
//
// It is the production-grade counterpart of digest.HashPassword, which uses a
// single public salt and a fast hash:
//
//	cfg := password.DefaultConfig()
//	encoded, err := cfg.Hash("correct horse battery staple")
//	ok, err := cfg.Verify(encoded, "correct horse battery staple")
//
// Hashes use the PHC string format, so parameters travel with the hash and can
// be raised later without breaking verification of older hashes.
package password
