// Package server runs the securelab HTTP handler with production timeouts and
// graceful shutdown.
//
// Build a server from environment config and run it under an errgroup:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// Run returns nil after a clean shutdown triggered by context cancellation.
// Setting SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE switches to HTTPS with
// TLS 1.2 as the minimum version.
package server
