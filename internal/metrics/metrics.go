// Package metrics exposes Prometheus collectors for render cycles.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seenimoa/quantsignal/pkg/models"
)

const namespace = "quantsignal"

// Trigger labels what started a render cycle.
type Trigger string

const (
	TriggerPage       Trigger = "page"
	TriggerRegenerate Trigger = "regenerate"
	TriggerWebSocket  Trigger = "websocket"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	cycles     *prometheus.CounterVec
	signals    *prometheus.CounterVec
	confidence prometheus.Histogram
}

// New builds and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_cycles_total",
				Help:      "Render cycles run, by trigger.",
			}, []string{"trigger"}),
		signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signals_total",
				Help:      "Generated signals, by type.",
			}, []string{"signal"}),
		confidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "confidence",
				Help:      "Confidence of generated signals.",
				Buckets:   prometheus.LinearBuckets(55, 5, 9),
			}),
	}
	m.registry.MustRegister(
		m.cycles,
		m.signals,
		m.confidence,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCycle records one completed render cycle. A nil receiver is a
// no-op so callers can run without metrics.
func (m *Metrics) ObserveCycle(trigger Trigger, table *models.SignalTable) {
	if m == nil || table == nil {
		return
	}
	m.cycles.WithLabelValues(string(trigger)).Inc()
	for _, row := range table.Rows {
		m.signals.WithLabelValues(string(row.Signal)).Inc()
		m.confidence.Observe(float64(row.Confidence))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
