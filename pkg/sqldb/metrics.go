package sqldb

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MustRegisterMetrics registers the statement metrics on the given registry.
// It panics if metrics with the same names are already registered.
func MustRegisterMetrics(registry prometheus.Registerer) {
	registry.MustRegister(statementCounter, statementDuration, statementArgs)
}

// sampleStatement records one statement. The table label carries the
// prefixed table name, so models must be built over a fixed set of tables;
// per-tenant or generated table names would grow the series without bound.
func sampleStatement(op, table string, elapsed time.Duration, args int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := prometheus.Labels{
		"status": status,
		"op":     op,
		"table":  table,
	}
	statementCounter.With(labels).Inc()
	statementDuration.With(labels).Observe(elapsed.Seconds())
	statementArgs.With(labels).Observe(float64(args))
}

var (
	statementCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlresource_statements_total",
			Help: "Total of executed resource model statements",
		},
		[]string{"status", "op", "table"},
	)
	statementDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlresource_statement_duration_seconds",
			Help:    "Duration of resource model statements",
			Buckets: prometheus.ExponentialBuckets(.0005, 2, 16),
		},
		[]string{"status", "op", "table"},
	)
	statementArgs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlresource_statement_args",
			Help:    "Number of parameters bound per statement",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"status", "op", "table"},
	)
)
