// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector exposed at /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
	OutcomeInvalid   = "invalid"
)

var (
	// AuthAttempts counts authentication attempts by method (register, login, token) and outcome.
	AuthAttempts = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfware_auth_attempts_total",
		Help: "Total number of authentication attempts by method and outcome",
	}, []string{"method", "outcome"})

	// ProjectOperations counts project operations by operation and outcome.
	ProjectOperations = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfware_project_operations_total",
		Help: "Total number of project operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shelfware_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfware_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// DatabaseMetrics records query latency for one table.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance for the table.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}
