// Package observability exposes prometheus metrics for the storage gateway.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts gateway operations per backend and fallback events. The
// fallback counter is the operational signal that writes are landing in the
// non-durable store.
type Metrics struct {
	Operations *prometheus.CounterVec
	Fallbacks  *prometheus.CounterVec
}

// NewMetrics creates and registers the gateway metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_operations_total",
			Help: "Storage operations served, by collection, backend and operation.",
		}, []string{"collection", "backend", "operation"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_fallbacks_total",
			Help: "Operations that fell back to the in-memory store after a durable-store error.",
		}, []string{"collection", "operation"}),
	}
	reg.MustRegister(m.Operations, m.Fallbacks)
	return m
}

// NewTestMetrics creates metrics on a private registry, for tests.
func NewTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
