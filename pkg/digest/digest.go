package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// DefaultLabel marks records produced by Digest. The digest is one-way; nothing
// can be decrypted from it.
const DefaultLabel = "SHA-256 (simulated encryption)"

// Record is the one-way digest of a canonically serialized value.
type Record struct {
	// DigestHex is lowercase hex, twice the hash output length. Deterministic for identical input bytes.
	DigestHex string `json:"digest_hex"`
	// ComputedAt is when the digest was taken. It differs between calls for the same input.
	ComputedAt time.Time `json:"computed_at"`
	// Algorithm names the hash function and its purpose.
	Algorithm string `json:"algorithm"`
}

// HashFunc computes a fixed-length digest of b.
type HashFunc func(b []byte) ([]byte, error)

// SHA256 is the default HashFunc.
func SHA256(b []byte) ([]byte, error) {
	sum := sha256.Sum256(b)
	return sum[:], nil
}

// Digester serializes values canonically and hashes the result.
// It has no mutable state and is safe for concurrent use.
type Digester struct {
	encoding Encoding
	hash     HashFunc
	label    string
	now      func() time.Time
}

// Option configures a Digester.
type Option func(*Digester)

// WithEncoding selects the canonical serialization.
func WithEncoding(enc Encoding) Option {
	return func(d *Digester) { d.encoding = enc }
}

// WithHashFunc replaces SHA-256 and sets the label stamped on records.
func WithHashFunc(label string, fn HashFunc) Option {
	return func(d *Digester) {
		if fn != nil {
			d.hash = fn
			d.label = label
		}
	}
}

// WithLabel overrides the algorithm label stamped on records.
func WithLabel(label string) Option {
	return func(d *Digester) {
		if label != "" {
			d.label = label
		}
	}
}

// WithClock overrides the time source for ComputedAt.
func WithClock(now func() time.Time) Option {
	return func(d *Digester) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates a Digester using canonical JSON and SHA-256 by default.
func New(opts ...Option) *Digester {
	d := &Digester{
		encoding: JSON,
		hash:     SHA256,
		label:    DefaultLabel,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Digest serializes data and returns its digest record.
// Fails with ErrSerialization for cyclic or unencodable data and ErrHashFailure
// when the hash function fails.
func (d *Digester) Digest(data any) (Record, error) {
	b, err := encode(d.encoding, data)
	if err != nil {
		return Record{}, err
	}

	sum, err := d.Sum(b)
	if err != nil {
		return Record{}, err
	}

	return Record{
		DigestHex:  sum,
		ComputedAt: d.now(),
		Algorithm:  d.label,
	}, nil
}

// Sum hashes raw bytes and returns lowercase hex.
func (d *Digester) Sum(b []byte) (string, error) {
	out, err := d.hash(b)
	if err != nil {
		return "", errors.Join(ErrHashFailure, err)
	}
	if len(out) == 0 {
		return "", ErrHashFailure
	}
	return hex.EncodeToString(out), nil
}

// Encoding returns the configured serialization.
func (d *Digester) Encoding() Encoding {
	return d.encoding
}

// Label returns the algorithm label stamped on records.
func (d *Digester) Label() string {
	return d.label
}

var defaultDigester = New()

// Digest digests data with the default canonical JSON + SHA-256 digester.
func Digest(data any) (Record, error) {
	return defaultDigester.Digest(data)
}
