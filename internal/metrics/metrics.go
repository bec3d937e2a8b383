package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewActiveConnections returns a gauge tracking currently admitted websocket connections
func NewActiveConnections() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_active_connections",
		Help: "Number of currently admitted websocket connections",
	})
}

// NewEventsPublishedTotal returns a counter for domain events fanned out to live connections
func NewEventsPublishedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_events_published_total",
		Help: "Total number of domain events fanned out to live connections",
	})
}

// NewDeliveryFailuresTotal returns a counter for per-connection delivery failures during fan-out
func NewDeliveryFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_delivery_failures_total",
		Help: "Total number of per-connection delivery failures during fan-out",
	})
}

// NewPushRetriesTotal returns a counter for retry attempts performed by the push provider
func NewPushRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "push_retries_total",
		Help: "Total number of retry attempts performed by the push provider",
	})
}
