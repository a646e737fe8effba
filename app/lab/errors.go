package lab

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/securelab/core/digeststore"
	"github.com/dmitrymomot/securelab/core/response"
	"github.com/dmitrymomot/securelab/core/session"
	"github.com/dmitrymomot/securelab/pkg/digest"
	"github.com/dmitrymomot/securelab/pkg/password"
)

var (
	ErrUnknownBackend      = errors.New("unknown store backend")
	ErrUnknownPasswordMode = errors.New("unknown password mode")
	ErrNilOption           = errors.New("option value cannot be nil")

	errInvalidJSON        = errors.New("request body is not valid JSON")
	errNoSession          = errors.New("no active session")
	errVerifyNotSupported = errors.New("password verification requires PASSWORD_MODE=argon2id")
)

// toHTTPError maps domain errors to the API's error presentation.
// Internal failures carry no cause so secrets and infrastructure details stay
// out of responses.
func toHTTPError(err error) response.HTTPError {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return response.ErrRequestEntityTooLarge
	case errors.Is(err, session.ErrInvalidInput):
		return response.ErrBadRequest.WithMessage("user id is required")
	case errors.Is(err, digest.ErrEmptyInput), errors.Is(err, password.ErrEmptyInput):
		return response.ErrBadRequest.WithMessage("password is required")
	case errors.Is(err, password.ErrInvalidHash):
		return response.ErrBadRequest.WithMessage("hash is not a valid argon2id hash")
	case errors.Is(err, digeststore.ErrInvalidKey):
		return response.ErrBadRequest.WithMessage("key is required")
	case errors.Is(err, errInvalidJSON):
		return response.ErrBadRequest.WithMessage(errInvalidJSON.Error())
	case errors.Is(err, digest.ErrSerialization):
		return response.ErrUnprocessableEntity.WithMessage("data cannot be serialized")
	case errors.Is(err, digeststore.ErrNotFound):
		return response.ErrNotFound.WithMessage("record not found")
	case errors.Is(err, errNoSession):
		return response.ErrNotFound.WithMessage(errNoSession.Error())
	case errors.Is(err, errVerifyNotSupported):
		return response.ErrNotFound.WithMessage(errVerifyNotSupported.Error())
	default:
		return response.ErrInternalServerError
	}
}
