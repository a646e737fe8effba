package randtoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
)

// Size is the number of random bytes in a token. Encoded tokens are twice as long.
const Size = 32

// Generator produces opaque hex tokens from a cryptographically secure source.
// It holds no mutable state; it is safe for concurrent use when the source is.
type Generator struct {
	source io.Reader
	size   int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource overrides the entropy source. The source must be cryptographically
// secure; passing nil makes New fail instead of falling back to anything weaker.
func WithSource(r io.Reader) Option {
	return func(g *Generator) {
		g.source = r
	}
}

// WithSize overrides the number of random bytes per token.
func WithSize(n int) Option {
	return func(g *Generator) {
		g.size = n
	}
}

// New creates a Generator reading from crypto/rand by default.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		source: rand.Reader,
		size:   Size,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.source == nil {
		return nil, ErrEntropySourceUnavailable
	}
	if g.size <= 0 {
		return nil, ErrInvalidSize
	}

	return g, nil
}

// Generate draws Size bytes and returns them as lowercase hex in byte order.
func (g *Generator) Generate() (string, error) {
	b := make([]byte, g.size)
	if _, err := io.ReadFull(g.source, b); err != nil {
		return "", errors.Join(ErrEntropySourceUnavailable, err)
	}
	return hex.EncodeToString(b), nil
}

// Size returns the number of random bytes per token.
func (g *Generator) Size() int {
	return g.size
}

var defaultGenerator = &Generator{source: rand.Reader, size: Size}

// Generate returns a 64-character hex token from crypto/rand.
func Generate() (string, error) {
	return defaultGenerator.Generate()
}
