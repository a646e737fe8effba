package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type config struct {
	level      slog.Level
	json       bool
	output     io.Writer
	attrs      []slog.Attr
	ctxValues  map[string]any
	addSource  bool
	replaceFns []func(groups []string, a slog.Attr) slog.Attr
}

// Option configures the logger built by New.
type Option func(*config)

// New builds a *slog.Logger. Without options it writes text at info level to stdout.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:     slog.LevelInfo,
		output:    os.Stdout,
		ctxValues: map[string]any{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     cfg.level,
		AddSource: cfg.addSource,
	}
	if len(cfg.replaceFns) > 0 {
		fns := cfg.replaceFns
		handlerOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			for _, fn := range fns {
				a = fn(groups, a)
			}
			return a
		}
	}

	var h slog.Handler
	if cfg.json {
		h = slog.NewJSONHandler(cfg.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(cfg.output, handlerOpts)
	}

	if len(cfg.ctxValues) > 0 {
		h = &contextHandler{Handler: h, keys: cfg.ctxValues}
	}
	if len(cfg.attrs) > 0 {
		h = h.WithAttrs(cfg.attrs)
	}

	return slog.New(h)
}

// SetAsDefault installs log as the process-wide default logger.
func SetAsDefault(log *slog.Logger) {
	if log != nil {
		slog.SetDefault(log)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithLevelString parses level names (debug, info, warn, error). Unknown names keep the current level.
func WithLevelString(level string) Option {
	return func(c *config) {
		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err == nil {
			c.level = l
		}
	}
}

// WithJSONFormatter switches output to JSON.
func WithJSONFormatter() Option {
	return func(c *config) { c.json = true }
}

// WithTextFormatter switches output to logfmt-style text.
func WithTextFormatter() Option {
	return func(c *config) { c.json = false }
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithSource includes the caller location in every record.
func WithSource() Option {
	return func(c *config) { c.addSource = true }
}

// WithReplaceAttr registers a ReplaceAttr hook. Hooks run in registration order.
func WithReplaceAttr(fn func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(c *config) {
		if fn != nil {
			c.replaceFns = append(c.replaceFns, fn)
		}
	}
}

// WithContextValue copies ctx.Value(ctxKey) into the record under attrKey when present.
func WithContextValue(attrKey string, ctxKey any) Option {
	return func(c *config) { c.ctxValues[attrKey] = ctxKey }
}

// WithDevelopment configures text output at debug level tagged with the service name.
func WithDevelopment(service string) Option {
	return func(c *config) {
		c.level = slog.LevelDebug
		c.json = false
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithStaging configures JSON output at info level tagged with the service name.
func WithStaging(service string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.json = true
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "staging"))
	}
}

// WithProduction configures JSON output at info level tagged with the service name.
func WithProduction(service string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.json = true
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// WithEnvironment picks one of the presets by name, falling back to development.
func WithEnvironment(env, service string) Option {
	switch env {
	case "production", "prod":
		return WithProduction(service)
	case "staging", "stage":
		return WithStaging(service)
	default:
		return WithDevelopment(service)
	}
}

// contextHandler injects configured context values as attributes.
type contextHandler struct {
	slog.Handler
	keys map[string]any
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		for attrKey, ctxKey := range h.keys {
			if v := ctx.Value(ctxKey); v != nil {
				r.AddAttrs(slog.Any(attrKey, v))
			}
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), keys: h.keys}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), keys: h.keys}
}
