// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks HTTP requests by method, route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// MessagesSent counts successfully appended messages.
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messenger_messages_sent_total",
			Help: "Messages durably appended to the message store",
		},
	)

	// IndexFanoutFailures counts conversation index writes that failed
	// after the message itself was appended. A non-zero rate means index
	// entries are lagging and reconciliation is needed.
	IndexFanoutFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messenger_index_fanout_failures_total",
			Help: "Conversation index fan-out writes that failed",
		},
	)
)
