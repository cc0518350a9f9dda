package web

import (
	"todo-cli/internal/bridge"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts gestures and tracks list size. Each instance owns its registry
// so several servers (or tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry
	gestures *prometheus.CounterVec
	items    *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_gestures_total",
			Help: "User gestures applied to the list, by kind and result.",
		}, []string{"kind", "result"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "todo_items",
			Help: "Items in the list at the last render, by state.",
		}, []string{"state"}),
	}
	m.registry.MustRegister(m.gestures, m.items)
	return m
}

// Observe matches bridge.Observer.
func (m *Metrics) Observe(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.gestures.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) setItems(s bridge.Snapshot) {
	m.items.WithLabelValues("active").Set(float64(s.ActiveCount))
	m.items.WithLabelValues("completed").Set(float64(s.CompletedCount))
}
