// Package metrics define las métricas Prometheus del ledger y del motor de alertas.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics agrupa los colectores. Implementa prometheus.Collector para
// registrarse de una sola vez.
type StockMetrics struct {
	EventsRecorded     *prometheus.CounterVec
	MutationsRejected  *prometheus.CounterVec
	AlertsCreated      prometheus.Counter
	AlertsResolved     prometheus.Counter
	AlertFailures      prometheus.Counter
	ActiveAlerts       prometheus.Gauge
	ReconcileDuration  prometheus.Histogram
	ThresholdsUpserted prometheus.Counter
}

// New crea las métricas y las registra en registry.
func New(registry prometheus.Registerer) (*StockMetrics, error) {
	m := newStockMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("registrar métricas: %w", err)
	}
	return m, nil
}

// NewUnregistered crea métricas sin registrar (pruebas o binarios sin /metrics).
func NewUnregistered() *StockMetrics { return newStockMetrics() }

func newStockMetrics() *StockMetrics {
	return &StockMetrics{
		EventsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_events_recorded_total",
			Help: "Eventos de stock escritos en el ledger, por tipo.",
		}, []string{"event_type"}),
		MutationsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_mutations_rejected_total",
			Help: "Mutaciones de stock rechazadas, por motivo.",
		}, []string{"reason"}),
		AlertsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "restocking_alerts_created_total",
			Help: "Alertas de reposición creadas.",
		}),
		AlertsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "restocking_alerts_resolved_total",
			Help: "Alertas de reposición resueltas.",
		}),
		AlertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "restocking_alert_failures_total",
			Help: "Productos que no pudieron procesarse durante una reconciliación.",
		}),
		ActiveAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "restocking_alerts_active",
			Help: "Alertas activas tras la última reconciliación.",
		}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "restocking_reconcile_duration_seconds",
			Help:    "Duración de una reconciliación completa.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		ThresholdsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "product_thresholds_upserted_total",
			Help: "Umbrales por producto creados o actualizados.",
		}),
	}
}

func (m *StockMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.EventsRecorded, m.MutationsRejected, m.AlertsCreated, m.AlertsResolved,
		m.AlertFailures, m.ActiveAlerts, m.ReconcileDuration, m.ThresholdsUpserted,
	}
}

// Describe implementa prometheus.Collector.
func (m *StockMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implementa prometheus.Collector.
func (m *StockMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}
