package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the service's Prometheus collectors. Constructed once per
// process via newMetrics and registered against a private registry so
// repeated test construction never panics on duplicate registration.
type metrics struct {
	requestsTotal  *prometheus.CounterVec
	decisionsTotal *prometheus.CounterVec
	registry       *prometheus.Registry
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudguard_http_requests_total",
			Help: "Total HTTP requests handled, by route and status.",
		}, []string{"route", "status"}),
		decisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudguard_fraud_decisions_total",
			Help: "Total fraud check decisions, by outcome.",
		}, []string{"decision"}),
		registry: registry,
	}
	return m
}
