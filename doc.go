// Package securelab is an index of the securelab module: session tokens,
// password hashing and keyed data digests, exposed as Go packages and as a
// small JSON API.
//
// # Getting Documentation
//
//	go doc github.com/dmitrymomot/securelab/core/session
//	go doc -all github.com/dmitrymomot/securelab/pkg/digest
//
// # Core Packages
//
//	github.com/dmitrymomot/securelab/core/config       - Type-safe environment variable loading
//	github.com/dmitrymomot/securelab/core/digeststore  - Keyed digest records over pluggable backends
//	github.com/dmitrymomot/securelab/core/health       - Liveness and readiness handlers
//	github.com/dmitrymomot/securelab/core/logger       - Structured logging built on slog
//	github.com/dmitrymomot/securelab/core/response     - JSON responses and structured HTTP errors
//	github.com/dmitrymomot/securelab/core/server       - HTTP server with graceful shutdown
//	github.com/dmitrymomot/securelab/core/session      - Single-slot session registry
//
// # HTTP Middleware
//
//	github.com/dmitrymomot/securelab/middleware        - Request IDs, request logging, body limits
//
// # Utility Packages
//
//	github.com/dmitrymomot/securelab/pkg/digest        - Canonical serialization and SHA-256 digests
//	github.com/dmitrymomot/securelab/pkg/password      - Argon2id password hashing
//	github.com/dmitrymomot/securelab/pkg/randtoken     - Cryptographically secure hex tokens
//
// # Integrations
//
//	github.com/dmitrymomot/securelab/integration/database/pg    - PostgreSQL pool, migrations, digest backend
//	github.com/dmitrymomot/securelab/integration/database/redis - Redis client and digest backend
//
// # Application
//
//	github.com/dmitrymomot/securelab/app/lab           - HTTP adapter wiring the packages above
//	github.com/dmitrymomot/securelab/cmd/securelab     - Service entry point
//
// # Quick Start
//
//	reg, err := session.NewRegistry()
//	if err != nil {
//		return err
//	}
//	s, err := reg.Create("alice")
//	if err != nil {
//		return err
//	}
//
//	store := digeststore.New()
//	key, rec, err := store.PutNew(ctx, map[string]any{"plan": "pro"})
//	if err != nil {
//		return err
//	}
//	fmt.Println(s.UserID, key, rec.DigestHex)
package securelab
