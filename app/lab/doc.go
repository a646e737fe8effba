// Package lab is the HTTP adapter over the securelab core: it owns the session
// registry, the digest store and the password hasher for one process and maps
// their results and errors to JSON.
//
// Routes:
//
//	POST   /password/hash    {"password"}          -> {"hash","algorithm"}
//	POST   /password/verify  {"password","hash"}   -> {"match"} (argon2id mode)
//	POST   /session          {"user_id"}           -> session, 201
//	GET    /session                                -> session or 404
//	DELETE /session                                -> 204
//	POST   /data[?key=k]     any JSON value        -> {"key","digest_hex",...}, 201
//	GET    /data                                   -> {"keys","count"}
//	GET    /data/{key}                             -> record or 404
//	GET    /health/live, /health/ready, /metrics
//
// The fixed-salt password mode (PASSWORD_MODE=fixed) reproduces a weak scheme
// and exists for demonstration. Use PASSWORD_MODE=argon2id for anything real.
package lab
