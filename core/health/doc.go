// Package health provides liveness and readiness handlers.
//
//	mux.HandleFunc("GET /health/live", health.Liveness)
//	mux.Handle("GET /health/ready", health.Readiness(log,
//		redis.Healthcheck(client),
//		pg.Healthcheck(pool),
//	))
package health
