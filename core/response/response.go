package response

import (
	"encoding/json"
	"errors"
	"net/http"
)

// statusCode lets any error choose its HTTP status.
type statusCode interface {
	StatusCode() int
}

// JSON writes v with the given status. A zero status means 200.
func JSON(w http.ResponseWriter, status int, v any) error {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// String writes a plain text body.
func String(w http.ResponseWriter, status int, s string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(s))
	return err
}

// Error writes err as a JSON HTTPError. Errors that are neither HTTPError
// nor implement StatusCode become 500s with no cause attached.
func Error(w http.ResponseWriter, err error) error {
	httpErr := ToHTTPError(err)
	return JSON(w, httpErr.Status, httpErr)
}

// ToHTTPError converts err to an HTTPError.
func ToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var sc statusCode
	if errors.As(err, &sc) {
		if base, ok := httpErrorsByStatus[sc.StatusCode()]; ok {
			return base.WithError(err)
		}
	}

	return ErrInternalServerError
}
