// Package metric provides Prometheus metrics for relaychat.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, chat counters and HTTP handler
//   - collector.go: Custom collector reading live chat state on scrape
//
// Metrics include:
//
//   - Connection and member gauges
//   - Authentication outcome counters
//   - Relay counters and received byte totals
//   - Storage sizes (registered by the Badger engines)
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
