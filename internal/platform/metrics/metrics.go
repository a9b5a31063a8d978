package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	CheckoutSessionsCreated prometheus.Counter
	Reconciliations         *prometheus.CounterVec
	DuplicateConfirmations  prometheus.Counter
	AuditEventsDropped      prometheus.Counter
	RequestDuration         *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on the given registerer. Tests pass
// a fresh registry so repeated construction never collides.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckoutSessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "clubsphere_checkout_sessions_created_total",
			Help: "Total number of gateway checkout sessions created",
		}),
		Reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clubsphere_reconciliations_total",
			Help: "Total reconciliation calls by terminal outcome",
		}, []string{"outcome"}),
		DuplicateConfirmations: factory.NewCounter(prometheus.CounterOpts{
			Name: "clubsphere_duplicate_confirmations_total",
			Help: "Ledger inserts swallowed as already-recorded",
		}),
		AuditEventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "clubsphere_audit_events_dropped_total",
			Help: "Audit events dropped because the inbox was full",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubsphere_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ReconciliationOutcome labels for the Reconciliations counter.
const (
	OutcomeRecorded = "recorded"
	OutcomeNotPaid  = "not_paid"
	OutcomeError    = "error"
)
