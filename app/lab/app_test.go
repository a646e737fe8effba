package lab_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securelab/app/lab"
	"github.com/dmitrymomot/securelab/core/digeststore"
	"github.com/dmitrymomot/securelab/core/logger"
	"github.com/dmitrymomot/securelab/core/server"
	"github.com/dmitrymomot/securelab/pkg/digest"
	"github.com/dmitrymomot/securelab/pkg/password"
)

func testConfig() lab.Config {
	return lab.Config{
		Server:         server.DefaultConfig(),
		AppName:        "securelab",
		Env:            "test",
		LogLevel:       "error",
		StoreBackend:   lab.BackendMemory,
		KeyPrefix:      "user",
		DigestEncoding: "json",
		PasswordMode:   lab.PasswordModeFixed,
		MaxBodyBytes:   1 << 20,
	}
}

func newApp(t *testing.T, mutate ...func(*lab.Config)) *lab.App {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	app, err := lab.NewApp(context.Background(), lab.WithConfig(cfg), lab.WithLogger(logger.Discard()))
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestPasswordHash_FixedSalt(t *testing.T) {
	t.Parallel()
	h := newApp(t).Handler()

	t.Run("hashes with fixed salt", func(t *testing.T) {
		t.Parallel()

		w := do(t, h, http.MethodPost, "/password/hash", `{"password":"secret"}`)
		require.Equal(t, http.StatusOK, w.Code)

		got := decode[map[string]string](t, w)
		assert.Equal(t, sha256Hex("secretsalt123"), got["hash"])
		assert.Equal(t, digest.PasswordAlgorithm, got["algorithm"])
	})

	t.Run("input is trimmed", func(t *testing.T) {
		t.Parallel()

		w := do(t, h, http.MethodPost, "/password/hash", `{"password":"  secret "}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, sha256Hex("secretsalt123"), decode[map[string]string](t, w)["hash"])
	})

	for name, body := range map[string]string{
		"empty":        `{"password":""}`,
		"whitespace":   `{"password":"   "}`,
		"missing":      `{}`,
		"invalid json": `{"password":`,
		"wrong type":   `{"password":42}`,
		"trailing":     `{"password":"a"}{}`,
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			t.Parallel()
			w := do(t, h, http.MethodPost, "/password/hash", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "bad_request", decode[map[string]any](t, w)["code"])
		})
	}

	t.Run("verify unavailable", func(t *testing.T) {
		t.Parallel()
		w := do(t, h, http.MethodPost, "/password/verify", `{"password":"a","hash":"b"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPassword_Argon2id(t *testing.T) {
	t.Parallel()

	h := newApp(t, func(c *lab.Config) {
		c.PasswordMode = lab.PasswordModeArgon2id
		c.Password = password.Argon2idParams{
			MemoryKiB:   1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		}
	}).Handler()

	w := do(t, h, http.MethodPost, "/password/hash", `{"password":"correct horse"}`)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]string](t, w)
	assert.Equal(t, password.Algorithm, got["algorithm"])
	assert.True(t, strings.HasPrefix(got["hash"], "$argon2id$"))

	body, err := json.Marshal(map[string]string{"password": "correct horse", "hash": got["hash"]})
	require.NoError(t, err)
	w = do(t, h, http.MethodPost, "/password/verify", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"match": true}, decode[map[string]bool](t, w))

	body, err = json.Marshal(map[string]string{"password": "wrong", "hash": got["hash"]})
	require.NoError(t, err)
	w = do(t, h, http.MethodPost, "/password/verify", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"match": false}, decode[map[string]bool](t, w))

	w = do(t, h, http.MethodPost, "/password/verify", `{"password":"x","hash":"not-a-hash"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()
	h := newApp(t).Handler()

	w := do(t, h, http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	before := time.Now().UnixMilli()
	w = do(t, h, http.MethodPost, "/session", `{"user_id":" alice "}`)
	require.Equal(t, http.StatusCreated, w.Code)
	alice := decode[map[string]any](t, w)
	assert.Equal(t, "alice", alice["user_id"])
	assert.Regexp(t, `^[0-9a-f]{64}$`, alice["token"])
	assert.GreaterOrEqual(t, int64(alice["created_at"].(float64)), before)

	w = do(t, h, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, alice, decode[map[string]any](t, w))

	w = do(t, h, http.MethodPost, "/session", `{"user_id":"bob"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	bob := decode[map[string]any](t, w)
	assert.NotEqual(t, alice["token"], bob["token"])

	w = do(t, h, http.MethodGet, "/session", "")
	assert.Equal(t, "bob", decode[map[string]any](t, w)["user_id"])

	w = do(t, h, http.MethodPost, "/session", `{"user_id":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, http.MethodGet, "/session", "")
	assert.Equal(t, "bob", decode[map[string]any](t, w)["user_id"], "failed create keeps prior session")

	for range 2 {
		w = do(t, h, http.MethodDelete, "/session", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	w = do(t, h, http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestData_StoreAndGet(t *testing.T) {
	t.Parallel()
	h := newApp(t).Handler()

	w := do(t, h, http.MethodPost, "/data", `{"b":1,"a":{"y":true,"x":null}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	stored := decode[map[string]any](t, w)

	key, _ := stored["key"].(string)
	assert.True(t, strings.HasPrefix(key, "user_"), key)
	assert.Equal(t, sha256Hex(`{"a":{"x":null,"y":true},"b":1}`), stored["digest_hex"])
	assert.Equal(t, digest.DefaultLabel, stored["algorithm"])

	w = do(t, h, http.MethodGet, "/data/"+key, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, stored["digest_hex"], got["digest_hex"])
	assert.Equal(t, stored["computed_at"], got["computed_at"])

	w = do(t, h, http.MethodGet, "/data/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestData_ExplicitKeysAndOrder(t *testing.T) {
	t.Parallel()
	h := newApp(t).Handler()

	for _, tc := range []struct{ key, body string }{
		{"second", `1`},
		{"first", `"x"`},
		{"second", `[1,2,3]`},
	} {
		w := do(t, h, http.MethodPost, "/data?key="+tc.key, tc.body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, h, http.MethodGet, "/data/second", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sha256Hex(`[1,2,3]`), decode[map[string]any](t, w)["digest_hex"])

	w = do(t, h, http.MethodGet, "/data", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Keys  []string `json:"keys"`
		Count int      `json:"count"`
	}](t, w)
	assert.Equal(t, []string{"second", "first"}, list.Keys)
	assert.Equal(t, 2, list.Count)
}

func TestData_NumbersDigestByValue(t *testing.T) {
	t.Parallel()
	h := newApp(t).Handler()

	for _, body := range []string{`1`, `1.0`, `1e0`, `10e-1`} {
		w := do(t, h, http.MethodPost, "/data", body)
		require.Equal(t, http.StatusCreated, w.Code, body)
		assert.Equal(t, sha256Hex(`1`), decode[map[string]any](t, w)["digest_hex"], body)
	}

	w := do(t, h, http.MethodPost, "/data", `{"n":1.0}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, sha256Hex(`{"n":1}`), decode[map[string]any](t, w)["digest_hex"])

	w = do(t, h, http.MethodPost, "/data", `{"n":12345678901234567890}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, sha256Hex(`{"n":12345678901234567000}`), decode[map[string]any](t, w)["digest_hex"])
}

func TestData_CBORNumbersAndStringsDiffer(t *testing.T) {
	t.Parallel()
	h := newApp(t, func(c *lab.Config) { c.DigestEncoding = "cbor" }).Handler()

	w := do(t, h, http.MethodPost, "/data", `{"n":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	num := decode[map[string]any](t, w)["digest_hex"]

	w = do(t, h, http.MethodPost, "/data", `{"n":"1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	str := decode[map[string]any](t, w)["digest_hex"]

	w = do(t, h, http.MethodPost, "/data", `{"n":1.0}`)
	require.Equal(t, http.StatusCreated, w.Code)
	same := decode[map[string]any](t, w)["digest_hex"]

	assert.NotEqual(t, num, str)
	assert.Equal(t, num, same)
}

type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header { return w.header }

func (w *brokenWriter) WriteHeader(status int) { w.status = status }

func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset by peer") }

func TestApp_ResponseWriteErrorsAreLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	app, err := lab.NewApp(context.Background(),
		lab.WithConfig(testConfig()),
		lab.WithLogger(logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))),
	)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	w := &brokenWriter{header: http.Header{}}
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))

	assert.Equal(t, http.StatusOK, w.status)
	assert.Contains(t, buf.String(), "response write failed")
	assert.Contains(t, buf.String(), "connection reset by peer")
}

func TestData_Rejections(t *testing.T) {
	t.Parallel()
	h := newApp(t, func(c *lab.Config) { c.MaxBodyBytes = 64 }).Handler()

	tests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"invalid json", "/data", `{"a":`, http.StatusBadRequest},
		{"empty body", "/data", "", http.StatusBadRequest},
		{"empty key", "/data?key=", `{}`, http.StatusBadRequest},
		{"too large", "/data", `"` + strings.Repeat("x", 100) + `"`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := do(t, h, http.MethodGet, "/data", "")
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["count"], "rejected writes store nothing")
}

func TestData_CBOREncoding(t *testing.T) {
	t.Parallel()
	h := newApp(t, func(c *lab.Config) { c.DigestEncoding = "cbor" }).Handler()

	w := do(t, h, http.MethodPost, "/data?key=k", `{"b":1,"a":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode[map[string]any](t, w)["digest_hex"]

	w = do(t, h, http.MethodPost, "/data?key=k", `{"a":2,"b":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, first, decode[map[string]any](t, w)["digest_hex"])
	assert.NotEqual(t, sha256Hex(`{"a":2,"b":1}`), first)
}

func TestProbesAndMetrics(t *testing.T) {
	t.Parallel()
	h := newApp(t, func(c *lab.Config) { c.AppName = "secure-lab" }).Handler()

	w := do(t, h, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())

	w = do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "READY", w.Body.String())

	do(t, h, http.MethodPost, "/password/hash", `{"password":"p"}`)
	do(t, h, http.MethodDelete, "/session", "")

	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `secure_lab_http_requests_total{code="200",route="/password/hash"} 1`)
	assert.Contains(t, body, `secure_lab_password_hashes_total{algorithm="SHA-256 with salt"} 1`)
	assert.Contains(t, body, "secure_lab_sessions_cleared_total 1")
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()
	h := newApp(t).Handler()

	w := do(t, h, http.MethodGet, "/health/live", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNewApp_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*lab.Config)
		opts   []lab.AppOption
		want   error
	}{
		{"unknown backend", func(c *lab.Config) { c.StoreBackend = "etcd" }, nil, lab.ErrUnknownBackend},
		{"unknown password mode", func(c *lab.Config) { c.PasswordMode = "md5" }, nil, lab.ErrUnknownPasswordMode},
		{"nil logger", func(*lab.Config) {}, []lab.AppOption{lab.WithLogger(nil)}, lab.ErrNilOption},
		{"nil store", func(*lab.Config) {}, []lab.AppOption{lab.WithStore("x", nil)}, lab.ErrNilOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tt.mutate(&cfg)
			opts := append([]lab.AppOption{lab.WithConfig(cfg), lab.WithLogger(logger.Discard())}, tt.opts...)

			_, err := lab.NewApp(ctx, opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown encoding", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.DigestEncoding = "xml"
		_, err := lab.NewApp(ctx, lab.WithConfig(cfg), lab.WithLogger(logger.Discard()))
		assert.Error(t, err)
	})
}

func TestWithStore(t *testing.T) {
	t.Parallel()

	backend := digeststore.NewMemoryBackend()
	store := digeststore.New(digeststore.WithBackend(backend), digeststore.WithKeyPrefix("custom"))

	cfg := testConfig()
	app, err := lab.NewApp(context.Background(),
		lab.WithConfig(cfg),
		lab.WithLogger(logger.Discard()),
		lab.WithStore("shared", store),
	)
	require.NoError(t, err)

	w := do(t, app.Handler(), http.MethodPost, "/data", `{}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, strings.HasPrefix(decode[map[string]any](t, w)["key"].(string), "custom_"))
	assert.Equal(t, int64(1), backend.Stats().Writes)
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	app, err := lab.NewApp(context.Background(),
		lab.WithConfig(testConfig()),
		lab.WithLogger(logger.Discard()),
		lab.WithServer(srv),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr().String() + "/health/live")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
