package ledger_node

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	// Submitted transactions by result (accepted, rejected) and rejection reason.
	Transactions *prometheus.CounterVec
	// Number of accounts known to the ledger.
	Accounts prometheus.Gauge
}

// NewMetrics creates the node metrics and registers them on reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transactions_total",
			Help:      "Transactions submitted to the ledger node.",
		}, []string{"result", "reason"}),
		Accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ledger",
			Name:      "accounts",
			Help:      "Accounts known to the ledger node.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transactions, m.Accounts)
	}
	return m
}
