// Package metrics exposes Prometheus instrumentation for synthesis calls and
// batch runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "incognito"

// Metrics groups the collectors used across the process.
type Metrics struct {
	registry *prometheus.Registry

	synthesis         *prometheus.CounterVec
	synthesisDuration prometheus.Histogram
	batchItems        *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		synthesis: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_total",
			Help:      "Synthesis calls by outcome and payload source.",
		}, []string{"outcome", "source"}),
		synthesisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_duration_seconds",
			Help:      "Wall time of one incognito session, landing page included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Batch items by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.synthesis,
		m.synthesisDuration,
		m.batchItems,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSynthesis records the outcome of one synthesis call. source is empty
// when no audio was produced.
func (m *Metrics) ObserveSynthesis(outcome, source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.synthesis.WithLabelValues(outcome, source).Inc()
	m.synthesisDuration.Observe(elapsed.Seconds())
}

// ObserveBatchItem records whether a batch item was saved.
func (m *Metrics) ObserveBatchItem(saved bool) {
	if m == nil {
		return
	}
	result := "failed"
	if saved {
		result = "saved"
	}
	m.batchItems.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
