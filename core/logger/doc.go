// Package logger provides structured logging utilities built on Go's standard slog package.
//
// It offers environment presets, context-aware attribute extraction and a set of
// attribute helpers for the values securelab logs most often: user IDs, session IDs,
// storage keys, algorithms and HTTP request metadata.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithProduction("securelab"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//
//	log.Info("session created",
//		logger.Component("session"),
//		logger.UserID(sess.UserID),
//		logger.SessionID(sess.ID.String()),
//	)
//
// # Nil Safety
//
// Helpers taking an error or identifier return an empty slog.Attr for nil or empty
// values. slog drops empty attributes, so callers never need a guard:
//
//	log.Error("store failed", logger.Error(err), logger.StorageKey(key))
//
// Session tokens are secrets; never log them.
package logger
