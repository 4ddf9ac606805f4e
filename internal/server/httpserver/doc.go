// Package httpserver serves the operational HTTP endpoints:
//
//   - GET /health: liveness plus member count and pause state
//   - GET /metrics: Prometheus exposition, optionally behind a bearer token
//
// It is started only when server.metrics.addr is set.
package httpserver
