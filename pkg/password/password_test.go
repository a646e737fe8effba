package password_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securelab/pkg/password"
)

// fastConfig keeps tests quick; production uses DefaultConfig.
func fastConfig() password.Config {
	cfg := password.DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestConfig_Hash(t *testing.T) {
	t.Parallel()

	t.Run("phc format", func(t *testing.T) {
		t.Parallel()
		encoded, err := fastConfig().Hash("s3cret")
		require.NoError(t, err)

		parts := strings.Split(encoded, "$")
		require.Len(t, parts, 6)
		assert.Equal(t, "argon2id", parts[1])
		assert.Equal(t, "v=19", parts[2])
		assert.Equal(t, "m=8192,t=1,p=1", parts[3])
	})

	t.Run("random salt per hash", func(t *testing.T) {
		t.Parallel()
		cfg := fastConfig()
		a, err := cfg.Hash("s3cret")
		require.NoError(t, err)
		b, err := cfg.Hash("s3cret")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("deterministic with fixed salt source", func(t *testing.T) {
		t.Parallel()
		cfg := fastConfig()
		cfg.Rand = bytes.NewReader(bytes.Repeat([]byte{1}, 16))
		a, err := cfg.Hash("s3cret")
		require.NoError(t, err)

		cfg.Rand = bytes.NewReader(bytes.Repeat([]byte{1}, 16))
		b, err := cfg.Hash("s3cret")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("empty password", func(t *testing.T) {
		t.Parallel()
		_, err := fastConfig().Hash("")
		assert.ErrorIs(t, err, password.ErrEmptyInput)
	})

	t.Run("salt source failure", func(t *testing.T) {
		t.Parallel()
		cfg := fastConfig()
		cfg.Rand = errReader{}
		_, err := cfg.Hash("s3cret")
		assert.ErrorIs(t, err, password.ErrSaltGeneration)
	})
}

func TestConfig_Verify(t *testing.T) {
	t.Parallel()
	cfg := fastConfig()
	encoded, err := cfg.Hash("s3cret")
	require.NoError(t, err)

	t.Run("match", func(t *testing.T) {
		t.Parallel()
		ok, err := cfg.Verify(encoded, "s3cret")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()
		ok, err := cfg.Verify(encoded, "wrong")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hashes", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{
			"",
			"plain",
			"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
			"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
			"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
			"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
		} {
			_, err := cfg.Verify(bad, "s3cret")
			assert.ErrorIs(t, err, password.ErrInvalidHash, bad)
		}
	})

	t.Run("rejects excessive parameters", func(t *testing.T) {
		t.Parallel()
		heavy := strings.Replace(encoded, "m=8192", "m=1048576", 1)
		_, err := cfg.Verify(heavy, "s3cret")
		assert.ErrorIs(t, err, password.ErrInvalidHash)
	})
}

func TestConfig_Algorithm(t *testing.T) {
	t.Parallel()
	assert.Equal(t, password.Algorithm, password.DefaultConfig().Algorithm())
}
