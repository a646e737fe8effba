package digest

const (
	// PasswordSalt is appended to every password before hashing.
	// It is public and shared by all users, so it does not stop precomputed-table
	// attacks. Use pkg/password for per-user salts and a slow KDF.
	PasswordSalt = "salt123"

	// PasswordAlgorithm describes HashPassword output.
	PasswordAlgorithm = "SHA-256 with salt"
)

// HashPassword returns the lowercase hex digest of password+PasswordSalt.
// The input is hashed as raw UTF-8 bytes, not serialized.
func (d *Digester) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyInput
	}
	return d.Sum([]byte(password + PasswordSalt))
}

// HashPassword hashes with SHA-256 and the fixed salt.
func HashPassword(password string) (string, error) {
	return defaultDigester.HashPassword(password)
}
