package middleware

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/securelab/core/response"
)

// DefaultBodyLimit caps request bodies at 1 MB.
const DefaultBodyLimit int64 = 1 << 20

// BodyLimit rejects requests whose Content-Length exceeds maxSize with 413 and
// caps the body reader for requests that do not declare a length. Handlers see
// *http.MaxBytesError when the cap is hit mid-read.
func BodyLimit(maxSize int64) Middleware {
	if maxSize <= 0 {
		maxSize = DefaultBodyLimit
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxSize {
				_ = response.Error(w, response.ErrRequestEntityTooLarge.
					WithMessage(fmt.Sprintf("request body too large, limit is %d bytes", maxSize)))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}
