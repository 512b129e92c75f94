// Package server wires the Nebula Studio backend together.
//
// NewServer builds, from one config.Config:
//   - the workspace store, catalog, explorer and assistant flows
//   - the upstream completion client and the hosted gateway functions
//   - a remote gateway client when GATEWAY_URL is set
//   - the gin router with recovery, tracing, metrics, logging, CORS and rate limiting
//   - /stream (WebSocket), /metrics (Prometheus) and /metrics/json
//
// Example Usage:
//
//	srv, err := server.NewServer(cfg, logger)
//	go srv.Run()
//	defer srv.Shutdown(ctx)
package server
