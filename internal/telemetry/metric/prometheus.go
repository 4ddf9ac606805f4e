package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relaychat"

// Auth outcomes recorded by RecordAuth.
const (
	AuthRegistered    = "registered"
	AuthPassword      = "password"
	AuthToken         = "token"
	AuthWrongToken    = "wrong_token"
	AuthWrongPassword = "wrong_password"
	AuthEmptyUsername = "empty_username"
	AuthAborted       = "aborted"
)

// Registry holds all application metrics.
//
// All methods are safe on a nil *Registry, so components can run without
// metrics wired.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectionsActive   prometheus.Gauge
	ConnectionsAccepted prometheus.Counter

	// Auth metrics
	AuthTotal *prometheus.CounterVec

	// Relay metrics
	MessagesRelayed prometheus.Counter
	RelayFailures   prometheus.Counter
	ReceivedBytes   prometheus.Counter
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// NewRegistry creates a registry with runtime and process collectors and
// the chat metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of open client connections, authenticated or not.",
		}),
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted client connections.",
		}),
		AuthTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_total",
			Help:      "Authentication attempts by outcome.",
		}, []string{"outcome"}),
		MessagesRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_relayed_total",
			Help:      "Total number of frames delivered to recipients.",
		}),
		RelayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_failures_total",
			Help:      "Total number of failed deliveries to a recipient.",
		}),
		ReceivedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "received_bytes_total",
			Help:      "Total payload bytes received from authenticated clients.",
		}),
	}

	reg.MustRegister(
		r.ConnectionsActive,
		r.ConnectionsAccepted,
		r.AuthTotal,
		r.MessagesRelayed,
		r.RelayFailures,
		r.ReceivedBytes,
	)
	return r
}

// Registerer exposes the underlying registry for components that register
// their own collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// Gatherer exposes the underlying registry for scraping in tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	if r == nil {
		return
	}
	r.ConnectionsAccepted.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (r *Registry) ConnClosed() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// RecordAuth counts one authentication outcome.
func (r *Registry) RecordAuth(outcome string) {
	if r == nil {
		return
	}
	r.AuthTotal.WithLabelValues(outcome).Inc()
}

// RecordReceived counts one received message of n bytes.
func (r *Registry) RecordReceived(n int) {
	if r == nil {
		return
	}
	r.ReceivedBytes.Add(float64(n))
}

// RecordRelay counts the deliveries and failures of one broadcast.
func (r *Registry) RecordRelay(delivered, failed int) {
	if r == nil {
		return
	}
	r.MessagesRelayed.Add(float64(delivered))
	r.RelayFailures.Add(float64(failed))
}
