// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (if present) and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/securelab/core/config"
//
//	type StoreConfig struct {
//		Backend   string `env:"STORE_BACKEND" envDefault:"memory"`
//		KeyPrefix string `env:"STORE_KEY_PREFIX" envDefault:"user"`
//	}
//
//	func main() {
//		var cfg StoreConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime.
// Different types are cached independently, so component configs
// (server.Config, redis.Config, pg.Config) can be loaded by their owners
// without coordinating with each other.
package config
