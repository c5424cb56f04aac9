package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AggregateMetrics counts order and purchase recomputations and audit write failures.
type AggregateMetrics struct {
	recomputes    *prometheus.CounterVec
	ordersDeleted prometheus.Counter
	auditFailures *prometheus.CounterVec
}

func NewAggregateMetrics(reg prometheus.Registerer) *AggregateMetrics {
	if reg == nil {
		return &AggregateMetrics{}
	}
	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregate_recomputes_total",
		Help: "Parent aggregate recomputations by aggregate kind.",
	}, []string{"aggregate"})
	ordersDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_on_empty_total",
		Help: "Orders removed because their last item was deleted.",
	})
	auditFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_write_failures_total",
		Help: "Audit log entries that could not be written.",
	}, []string{"model"})
	reg.MustRegister(recomputes, ordersDeleted, auditFailures)
	return &AggregateMetrics{
		recomputes:    recomputes,
		ordersDeleted: ordersDeleted,
		auditFailures: auditFailures,
	}
}

func (m *AggregateMetrics) IncRecompute(aggregate string) {
	if m == nil || m.recomputes == nil {
		return
	}
	m.recomputes.WithLabelValues(normalizeLabel(aggregate)).Inc()
}

func (m *AggregateMetrics) IncOrderDeletedOnEmpty() {
	if m == nil || m.ordersDeleted == nil {
		return
	}
	m.ordersDeleted.Inc()
}

func (m *AggregateMetrics) IncAuditFailure(model string) {
	if m == nil || m.auditFailures == nil {
		return
	}
	m.auditFailures.WithLabelValues(normalizeLabel(model)).Inc()
}
