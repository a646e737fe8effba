package password

import (
	"io"
	"runtime"
)

// Argon2idParams controls Argon2id hashing cost. MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32 `env:"ARGON2_MEMORY_KIB" envDefault:"65536"`
	Iterations  uint32 `env:"ARGON2_ITERATIONS" envDefault:"3"`
	Parallelism uint8  `env:"ARGON2_PARALLELISM" envDefault:"2"`
	SaltLength  uint32 `env:"ARGON2_SALT_LEN" envDefault:"16"`
	KeyLength   uint32 `env:"ARGON2_KEY_LEN" envDefault:"32"`
}

// Config configures the hasher.
type Config struct {
	Params Argon2idParams

	// Rand is the salt source. Nil means crypto/rand.
	Rand io.Reader
}

// DefaultConfig returns a baseline suitable for interactive logins.
func DefaultConfig() Config {
	threads := min(max(runtime.NumCPU(), 1), 4)

	return Config{
		Params: Argon2idParams{
			MemoryKiB:   64 * 1024,
			Iterations:  3,
			Parallelism: uint8(threads), // #nosec G115 -- clamped to [1..4]
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}
