/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the workspace
backend, tracking HTTP requests, workspace store mutations, gateway calls and
websocket subscribers.

# Features

- HTTP request metrics (latency, throughput, size)
- Workspace metrics (open sessions, conversation length, mutations by operation)
- Gateway metrics (calls, duration, typed errors) for assist and generation
- WebSocket connection metrics
- Uptime

# Usage

	// Create metrics collector on the default registry
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Time gateway calls
	timer := monitoring.NewTimer(metrics, "assist")
	// ... perform call ...
	timer.Stop("success")

Tests pass prometheus.NewRegistry() so collectors never collide.

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
