package metrics

import "github.com/prometheus/client_golang/prometheus"

// RepositoryMetrics counts document repository operations and storage
// failures, labeled by collection and operation.
type RepositoryMetrics struct {
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
}

// NewRepositoryMetrics creates and registers the repository counters.
func NewRepositoryMetrics(reg prometheus.Registerer) *RepositoryMetrics {
	m := &RepositoryMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repository_operations_total",
			Help: "Completed repository operations by collection and operation.",
		}, []string{"collection", "operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repository_errors_total",
			Help: "Failed repository operations by collection and operation.",
		}, []string{"collection", "operation"}),
	}
	reg.MustRegister(m.operations, m.errors)
	return m
}

// ObserveOperation records a completed operation.
func (m *RepositoryMetrics) ObserveOperation(collection, operation string) {
	m.operations.WithLabelValues(collection, operation).Inc()
}

// ObserveError records a failed operation.
func (m *RepositoryMetrics) ObserveError(collection, operation string) {
	m.errors.WithLabelValues(collection, operation).Inc()
}
