package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InterceptedFailures tracks failed round trips handed to the parser chain
	InterceptedFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errorstack_intercepted_failures_total",
			Help: "Total number of failed requests passed to the error parser chain",
		},
		[]string{"status"},
	)

	// Outcomes tracks terminal outcomes delivered to the error store
	Outcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errorstack_outcomes_total",
			Help: "Total number of parser chain outcomes by kind and error type",
		},
		[]string{"outcome", "type"},
	)

	// LogicErrors tracks parser chain contract violations
	LogicErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "errorstack_logic_errors_total",
			Help: "Total number of error parser contract violations",
		},
	)

	// DroppedEvents tracks store events not delivered to a slow subscriber
	DroppedEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "errorstack_dropped_events_total",
			Help: "Total number of error events dropped for slow subscribers",
		},
	)

	// WebsocketClients tracks connected UI clients
	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "errorstack_websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)
)
