// Package metrics provides Prometheus metrics for the board service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
	DeliveriesDropped prometheus.Counter
	WSSubscribers     prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_http_requests_total",
				Help: "Total HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_events_published_total",
				Help: "Total broadcast events published by event type.",
			},
			[]string{"type"},
		),
		DeliveriesDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "board_event_deliveries_dropped_total",
				Help: "Frames dropped because a subscriber buffer was full.",
			},
		),
		WSSubscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "board_ws_subscribers",
				Help: "Currently connected WebSocket subscribers.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.HTTPRequestsTotal)
	reg.MustRegister(m.EventsPublished)
	reg.MustRegister(m.DeliveriesDropped)
	reg.MustRegister(m.WSSubscribers)

	return m
}

// Handler returns an http.Handler serving the registry in the Prometheus
// text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
