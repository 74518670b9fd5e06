// Package metrics registers the Prometheus instruments shared across the
// service. They are exposed on /metrics by the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts processed chat queries by outcome.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askdeck_chat_queries_total",
		Help: "Chat queries processed, labelled by outcome.",
	}, []string{"outcome"})

	// DocumentLoads counts content cache lookups by result.
	DocumentLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askdeck_document_cache_loads_total",
		Help: "Document content cache lookups, labelled hit, load or miss.",
	}, []string{"result"})

	// SessionsSwept counts sessions removed by the idle-timeout sweep.
	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "askdeck_sessions_swept_total",
		Help: "Sessions cleared by the expiry sweep.",
	})
)
