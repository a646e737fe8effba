package lab

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/securelab/core/logger"
	"github.com/dmitrymomot/securelab/core/response"
	"github.com/dmitrymomot/securelab/core/session"
	"github.com/dmitrymomot/securelab/pkg/digest"
)

type passwordRequest struct {
	Password string `json:"password"`
	Hash     string `json:"hash,omitempty"`
}

type hashResponse struct {
	Hash      string `json:"hash"`
	Algorithm string `json:"algorithm"`
}

type verifyResponse struct {
	Match bool `json:"match"`
}

type sessionRequest struct {
	UserID string `json:"user_id"`
}

type sessionResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	CreatedAt int64  `json:"created_at"`
}

type recordResponse struct {
	Key        string    `json:"key"`
	DigestHex  string    `json:"digest_hex"`
	ComputedAt time.Time `json:"computed_at"`
	Algorithm  string    `json:"algorithm"`
}

type keysResponse struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

func newSessionResponse(s session.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID.String(),
		UserID:    s.UserID,
		Token:     s.Token,
		CreatedAt: s.CreatedAtMillis(),
	}
}

func newRecordResponse(key string, rec digest.Record) recordResponse {
	return recordResponse{
		Key:        key,
		DigestHex:  rec.DigestHex,
		ComputedAt: rec.ComputedAt,
		Algorithm:  rec.Algorithm,
	}
}

func (a *App) hashPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	hash, err := a.hasher.Hash(strings.TrimSpace(req.Password))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.metrics.passwordHashes.WithLabelValues(a.hasher.Algorithm()).Inc()
	a.respond(w, r, http.StatusOK, hashResponse{Hash: hash, Algorithm: a.hasher.Algorithm()})
}

func (a *App) verifyPassword(w http.ResponseWriter, r *http.Request) {
	verifier, ok := a.hasher.(passwordVerifier)
	if !ok {
		a.fail(w, r, errVerifyNotSupported)
		return
	}

	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	pw := strings.TrimSpace(req.Password)
	if pw == "" {
		a.fail(w, r, digest.ErrEmptyInput)
		return
	}

	match, err := verifier.Verify(req.Hash, pw)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, verifyResponse{Match: match})
}

func (a *App) createSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	s, err := a.sessions.Create(req.UserID)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.metrics.sessionsCreated.Inc()
	a.respond(w, r, http.StatusCreated, newSessionResponse(s))
}

func (a *App) currentSession(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessions.Current()
	if !ok {
		a.fail(w, r, errNoSession)
		return
	}
	a.respond(w, r, http.StatusOK, newSessionResponse(s))
}

func (a *App) clearSession(w http.ResponseWriter, _ *http.Request) {
	a.sessions.Clear()
	a.metrics.sessionsCleared.Inc()
	response.NoContent(w)
}

// storeData digests an arbitrary JSON body. The key comes from ?key= when
// present; otherwise a fresh one is generated.
func (a *App) storeData(w http.ResponseWriter, r *http.Request) {
	var data any
	if err := decodeJSON(r, &data); err != nil {
		a.fail(w, r, err)
		return
	}

	var (
		key = r.URL.Query().Get("key")
		rec digest.Record
		err error
	)
	if r.URL.Query().Has("key") {
		rec, err = a.store.Put(r.Context(), key, data)
	} else {
		key, rec, err = a.store.PutNew(r.Context(), data)
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.metrics.recordsStored.WithLabelValues(a.backend).Inc()
	a.respond(w, r, http.StatusCreated, newRecordResponse(key, rec))
}

func (a *App) getData(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	rec, err := a.store.Get(r.Context(), key)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, newRecordResponse(key, rec))
}

func (a *App) listData(w http.ResponseWriter, r *http.Request) {
	keys, err := a.store.Keys(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	a.respond(w, r, http.StatusOK, keysResponse{Keys: keys, Count: len(keys)})
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := toHTTPError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed",
			logger.Component("api"),
			logger.Path(r.URL.Path),
			logger.Error(err),
		)
	}
	a.respond(w, r, httpErr.Status, httpErr)
}

// respond writes v as JSON. Write errors mean the client went away and are
// only logged at debug level.
func (a *App) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := response.JSON(w, status, v); err != nil {
		a.logger.DebugContext(r.Context(), "response write failed",
			logger.Component("api"),
			logger.Path(r.URL.Path),
			logger.StatusCode(status),
			logger.Error(err),
		)
	}
}

// decodeJSON reads exactly one JSON value from the body. Numbers decode to
// float64, so 1, 1.0 and 1e0 digest the same.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return errors.Join(errInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}
