package daemon

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// metrics is a per-service registry so tests can build many services.
type metrics struct {
	reg *prometheus.Registry

	limit         prometheus.Gauge
	spent         prometheus.Gauge
	utilization   prometheus.Gauge
	bills         *prometheus.GaugeVec
	sweeps        prometheus.Counter
	markedDueSoon prometheus.Counter
	events        *prometheus.CounterVec
	subscribers   prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		limit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_budget_limit_dollars",
			Help: "Monthly budget limit.",
		}),
		spent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_budget_spent_dollars",
			Help: "Sum of all bill amounts.",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_budget_utilization_ratio",
			Help: "Spent divided by limit.",
		}),
		bills: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fintrack_bills",
			Help: "Bills by stored status.",
		}, []string{"status"}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_sweeps_total",
			Help: "Due-date sweeps run.",
		}),
		markedDueSoon: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_bills_marked_due_soon_total",
			Help: "Pending bills moved to due_soon by the sweep.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_events_published_total",
			Help: "Events published, by type.",
		}, []string{"type"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_stream_subscribers",
			Help: "Connected SSE subscribers.",
		}),
	}
	m.reg.MustRegister(
		m.limit, m.spent, m.utilization, m.bills,
		m.sweeps, m.markedDueSoon, m.events, m.subscribers,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) observe(s Snapshot, limit decimal.Decimal) {
	m.limit.Set(limit.InexactFloat64())
	m.spent.Set(s.TotalSpent.InexactFloat64())
	m.utilization.Set(s.Utilization)
	m.bills.WithLabelValues("due_soon").Set(float64(s.DueSoon))
	m.bills.WithLabelValues("paid").Set(float64(s.Paid))
	m.bills.WithLabelValues("pending").Set(float64(s.Bills - s.DueSoon - s.Paid))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
