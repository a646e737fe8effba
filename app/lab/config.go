package lab

import (
	"github.com/dmitrymomot/securelab/core/server"
	"github.com/dmitrymomot/securelab/integration/database/pg"
	"github.com/dmitrymomot/securelab/integration/database/redis"
	"github.com/dmitrymomot/securelab/pkg/password"
)

// Storage backends for digest records.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Password hashing modes.
const (
	PasswordModeFixed    = "fixed"
	PasswordModeArgon2id = "argon2id"
)

type Config struct {
	Server   server.Config
	Redis    redis.Config
	DB       pg.Config
	Password password.Argon2idParams

	AppName  string `env:"APP_NAME" envDefault:"securelab"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreBackend   string `env:"STORE_BACKEND" envDefault:"memory"`
	KeyPrefix      string `env:"STORE_KEY_PREFIX" envDefault:"user"`
	DigestEncoding string `env:"DIGEST_ENCODING" envDefault:"json"`
	PasswordMode   string `env:"PASSWORD_MODE" envDefault:"fixed"`
	MaxBodyBytes   int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}
