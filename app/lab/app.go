package lab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/securelab/core/config"
	"github.com/dmitrymomot/securelab/core/digeststore"
	"github.com/dmitrymomot/securelab/core/health"
	"github.com/dmitrymomot/securelab/core/logger"
	"github.com/dmitrymomot/securelab/core/server"
	"github.com/dmitrymomot/securelab/core/session"
	"github.com/dmitrymomot/securelab/integration/database/pg"
	"github.com/dmitrymomot/securelab/integration/database/redis"
	"github.com/dmitrymomot/securelab/middleware"
	"github.com/dmitrymomot/securelab/pkg/digest"
	"github.com/dmitrymomot/securelab/pkg/password"
)

// passwordHasher is satisfied by the fixed-salt and argon2id hashers.
type passwordHasher interface {
	Hash(password string) (string, error)
	Algorithm() string
}

type passwordVerifier interface {
	Verify(encodedHash, password string) (bool, error)
}

// fixedSaltHasher adapts digest.HashPassword.
type fixedSaltHasher struct {
	digester *digest.Digester
}

func (h fixedSaltHasher) Hash(pw string) (string, error) { return h.digester.HashPassword(pw) }
func (h fixedSaltHasher) Algorithm() string              { return digest.PasswordAlgorithm }

// App owns every piece of state the API touches. Nothing is global.
type App struct {
	config   Config
	logger   *slog.Logger
	sessions *session.Registry
	store    *digeststore.Store
	digester *digest.Digester
	hasher   passwordHasher
	server   *server.Server
	metrics  *metrics

	backend string
	checks  []health.Check
	closers []func()
}

type AppOption func(*App) error

// NewApp loads Config from the environment, applies opts and connects the
// configured store backend. Call Close (or Run, which closes on return) to
// release connections.
func NewApp(ctx context.Context, opts ...AppOption) (_ *App, err error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{config: cfg}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	if app.logger == nil {
		app.logger = logger.New(
			logger.WithEnvironment(app.config.Env, app.config.AppName),
			logger.WithLevelString(app.config.LogLevel),
			logger.WithContextValue("request_id", middleware.RequestIDContextKey()),
		)
	}

	enc, err := digest.ParseEncoding(app.config.DigestEncoding)
	if err != nil {
		return nil, err
	}
	app.digester = digest.New(digest.WithEncoding(enc))

	if app.hasher == nil {
		if app.hasher, err = newHasher(app.config, app.digester); err != nil {
			return nil, err
		}
	}

	if app.sessions == nil {
		if app.sessions, err = session.NewRegistry(session.WithLogger(app.logger)); err != nil {
			return nil, err
		}
	}

	if app.store == nil {
		backend, err := app.connectBackend(ctx)
		if err != nil {
			return nil, err
		}
		app.store = digeststore.New(
			digeststore.WithBackend(backend),
			digeststore.WithDigester(app.digester),
			digeststore.WithLogger(app.logger),
			digeststore.WithKeyPrefix(app.config.KeyPrefix),
		)
	}
	if app.backend == "" {
		app.backend = app.config.StoreBackend
	}

	app.metrics = newMetrics(metricNamespace(app.config.AppName))

	if app.server == nil {
		if app.server, err = server.NewFromConfig(app.config.Server, server.WithLogger(app.logger)); err != nil {
			return nil, err
		}
	}

	app.logger.InfoContext(ctx, "app initialized",
		logger.Component("app"),
		logger.Backend(app.backend),
		logger.Algorithm(app.hasher.Algorithm()),
		slog.String("encoding", enc.String()),
	)

	return app, nil
}

func newHasher(cfg Config, d *digest.Digester) (passwordHasher, error) {
	switch cfg.PasswordMode {
	case "", PasswordModeFixed:
		return fixedSaltHasher{digester: d}, nil
	case PasswordModeArgon2id:
		pc := password.DefaultConfig()
		if cfg.Password != (password.Argon2idParams{}) {
			pc.Params = cfg.Password
		}
		return pc, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPasswordMode, cfg.PasswordMode)
	}
}

// connectBackend opens the configured digest backend and registers its health
// check and closer.
func (a *App) connectBackend(ctx context.Context) (digeststore.Backend, error) {
	switch a.config.StoreBackend {
	case "", BackendMemory:
		return digeststore.NewMemoryBackend(), nil

	case BackendRedis:
		client, err := redis.Connect(ctx, a.config.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.checks = append(a.checks, redis.Healthcheck(client))
		return redis.NewDigestBackend(client, a.config.Redis.KeyPrefix), nil

	case BackendPostgres:
		pool, err := pg.Connect(ctx, a.config.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		if err := pg.Migrate(ctx, pool, a.config.DB, a.logger); err != nil {
			return nil, err
		}
		a.checks = append(a.checks, pg.Healthcheck(pool))
		return pg.NewDigestBackend(pool), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, a.config.StoreBackend)
	}
}

// Handler returns the API with its middleware stack.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	route := func(pattern, name string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, a.metrics.instrument(name, h))
	}

	route("POST /password/hash", "/password/hash", a.hashPassword)
	route("POST /password/verify", "/password/verify", a.verifyPassword)
	route("POST /session", "/session", a.createSession)
	route("GET /session", "/session", a.currentSession)
	route("DELETE /session", "/session", a.clearSession)
	route("POST /data", "/data", a.storeData)
	route("GET /data", "/data", a.listData)
	route("GET /data/{key}", "/data/{key}", a.getData)

	mux.HandleFunc("GET /health/live", health.Liveness)
	mux.Handle("GET /health/ready", health.Readiness(a.logger, a.checks...))
	mux.Handle("GET /metrics", a.metrics.handler())

	return middleware.Chain(mux,
		middleware.RequestID(),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: a.logger,
			Skip:   isProbe,
		}),
		middleware.BodyLimit(a.config.MaxBodyBytes),
	)
}

// Run serves the API until ctx is canceled, then shuts down and closes backends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.Handler()))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases backend connections in reverse order of acquisition. Safe to call twice.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func isProbe(r *http.Request) bool {
	switch r.URL.Path {
	case "/health/live", "/health/ready", "/metrics":
		return true
	}
	return false
}

var invalidMetricChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func metricNamespace(name string) string {
	return invalidMetricChars.ReplaceAllString(name, "_")
}

func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return fmt.Errorf("%w: logger", ErrNilOption)
		}
		app.logger = log
		return nil
	}
}

func WithServer(srv *server.Server) AppOption {
	return func(app *App) error {
		if srv == nil {
			return fmt.Errorf("%w: server", ErrNilOption)
		}
		app.server = srv
		return nil
	}
}

func WithSessionRegistry(r *session.Registry) AppOption {
	return func(app *App) error {
		if r == nil {
			return fmt.Errorf("%w: session registry", ErrNilOption)
		}
		app.sessions = r
		return nil
	}
}

// WithStore replaces the configured backend. name is reported in logs and metrics.
func WithStore(name string, s *digeststore.Store) AppOption {
	return func(app *App) error {
		if s == nil {
			return fmt.Errorf("%w: store", ErrNilOption)
		}
		app.store = s
		app.backend = name
		return nil
	}
}
