/*
Package metrics exposes Prometheus instruments for question answering.

A Metrics value owns its own registry so several engines (and tests) can
coexist in one process. All methods are safe on a nil *Metrics, which
disables collection.
*/
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "focusask"

// Metrics holds the registered collectors.
type Metrics struct {
	registry       *prometheus.Registry
	questions      *prometheus.CounterVec
	answerDuration *prometheus.HistogramVec
	backendErrors  *prometheus.CounterVec
	indexDocuments prometheus.Gauge
	indexBuilds    prometheus.Counter
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_total",
			Help:      "Questions answered, by intent and answer path.",
		}, []string{"intent", "path"}),
		answerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_duration_seconds",
			Help:      "End-to-end answer latency.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"path"}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Embedding or generation backend failures.",
		}, []string{"backend"}),
		indexDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_documents",
			Help:      "Entries in the semantic index.",
		}),
		indexBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_builds_total",
			Help:      "Index builds and rebuilds that inserted documents.",
		}),
	}

	m.registry.MustRegister(
		m.questions,
		m.answerDuration,
		m.backendErrors,
		m.indexDocuments,
		m.indexBuilds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnswer counts one answered question and its latency.
func (m *Metrics) ObserveAnswer(intent, path string, latency time.Duration) {
	if m == nil {
		return
	}
	m.questions.WithLabelValues(intent, path).Inc()
	m.answerDuration.WithLabelValues(path).Observe(latency.Seconds())
}

// BackendError counts a failure of the named backend ("embedding" or "generation").
func (m *Metrics) BackendError(backend string) {
	if m == nil {
		return
	}
	m.backendErrors.WithLabelValues(backend).Inc()
}

// SetIndexDocuments records the current index size.
func (m *Metrics) SetIndexDocuments(n int) {
	if m == nil {
		return
	}
	m.indexDocuments.Set(float64(n))
}

// IndexBuilt counts a build that inserted documents.
func (m *Metrics) IndexBuilt() {
	if m == nil {
		return
	}
	m.indexBuilds.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
