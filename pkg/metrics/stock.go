package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics records stock ledger movements and rejected reservations.
type StockMetrics struct {
	units    *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewStockMetrics registers the stock ledger metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_units_total",
		Help: "Units moved through the stock ledger.",
	}, []string{"direction"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reservations_rejected_total",
		Help: "Stock reservations rejected by the ledger.",
	}, []string{"reason"})
	reg.MustRegister(units, rejected)
	return &StockMetrics{
		units:    units,
		rejected: rejected,
	}
}

// AddReserved counts units taken out of stock.
func (m *StockMetrics) AddReserved(qty int) {
	if m == nil || m.units == nil || qty <= 0 {
		return
	}
	m.units.WithLabelValues("reserved").Add(float64(qty))
}

// AddRestored counts units returned to stock.
func (m *StockMetrics) AddRestored(qty int) {
	if m == nil || m.units == nil || qty <= 0 {
		return
	}
	m.units.WithLabelValues("restored").Add(float64(qty))
}

// IncRejected counts a rejected reservation by reason.
func (m *StockMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
