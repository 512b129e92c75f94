// Package middleware provides the gin middleware of the Nebula Studio API.
//
// Middleware stack:
//   - CORS: any origin, with the headers the assist and generation clients send
//   - RateLimit: per-IP token bucket with idle eviction and Retry-After
//   - GlobalRateLimit: one bucket for every client
//   - Logger: one zap line per request, level by status class
//   - Recovery: panic to 500 with the stack logged
//
// Example Usage:
//
//	router.Use(middleware.Recovery(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.FromConfig(cfg.RateLimit)))
package middleware
