// File: internal/platform/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for auth operations.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Metrics holds all Prometheus metrics for the portal.
// Each instance owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	AuthOperations   *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	ValidationErrors *prometheus.CounterVec
	RateLimited      prometheus.Counter
	VisitorSessions  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AuthOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_portal_auth_operations_total",
			Help: "Auth operations dispatched through the status store, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "account_portal_provider_call_duration_seconds",
			Help:    "Latency of identity provider calls, by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_portal_form_validation_errors_total",
			Help: "Form submissions rejected before dispatch, by screen.",
		}, []string{"screen"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "account_portal_rate_limited_requests_total",
			Help: "Requests rejected by the per-IP rate limiter.",
		}),
		VisitorSessions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_portal_visitor_sessions_total",
			Help: "Visitor session lookups, by result (created, restored, resumed).",
		}, []string{"result"}),
	}
}

// ObserveOperation records one finished auth operation.
func (m *Metrics) ObserveOperation(operation string, succeeded bool, elapsed time.Duration) {
	outcome := OutcomeFailed
	if succeeded {
		outcome = OutcomeSucceeded
	}
	m.AuthOperations.WithLabelValues(operation, outcome).Inc()
	m.ProviderLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
