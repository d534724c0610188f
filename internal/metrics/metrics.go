package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry         *prometheus.Registry
	SecondaryUpdates *prometheus.CounterVec
	Reconciled       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		SecondaryUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "secondary_updates_total",
			Help:      "Best-effort updates that follow a primary write, by operation and status.",
		}, []string{"operation", "status"}),
		Reconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "reconciled_total",
			Help:      "Rows repaired by the reconciliation job, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.SecondaryUpdates, m.Reconciled)
	return m
}

func (m *Metrics) ObserveSecondary(operation, status string) {
	if m == nil {
		return
	}
	m.SecondaryUpdates.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) ObserveReconciled(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Reconciled.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
