// Package middleware provides net/http middleware for the securelab API:
// request IDs, request logging and body size limits.
//
//	h := middleware.Chain(mux,
//		middleware.RequestID(),
//		middleware.Logging(log),
//		middleware.BodyLimit(middleware.DefaultBodyLimit),
//	)
//
// The first middleware passed to Chain is the outermost, so the request ID is
// available to the logger.
package middleware
