package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/securelab/core/logger"
	"github.com/dmitrymomot/securelab/core/response"
)

// Check reports whether a dependency is available.
type Check func(context.Context) error

// DefaultCheckTimeout bounds each readiness check.
const DefaultCheckTimeout = 2 * time.Second

// Liveness always answers 200 "ALIVE".
func Liveness(w http.ResponseWriter, _ *http.Request) {
	_ = response.String(w, http.StatusOK, "ALIVE")
}

// Readiness runs checks in order and answers 200 "READY" when all pass,
// or 503 on the first failure.
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), DefaultCheckTimeout)
			err := check(ctx)
			cancel()
			if err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component("health"),
					logger.Error(err),
				)
				_ = response.Error(w, response.ErrServiceUnavailable)
				return
			}
		}
		_ = response.String(w, http.StatusOK, "READY")
	}
}
