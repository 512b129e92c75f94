// Package main is the entry point of the Nebula Studio backend.
//
// Configuration comes from the environment (optionally seeded from a .env
// file) and can be overridden with flags:
//
//	nebula-server --port 8000 --host 127.0.0.1
//	nebula-server --dev                 # console logs, debug level
//	GATEWAY_URL=https://example.com/functions/v1 nebula-server
//
// SIGINT and SIGTERM shut the server down gracefully.
package main
