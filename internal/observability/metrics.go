package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relevance"

// Metrics holds the service's Prometheus collectors on a private registry.
// It implements features.Observer.
type Metrics struct {
	registry *prometheus.Registry

	assemblies        *prometheus.CounterVec
	assemblyDuration  prometheus.Histogram
	embeddingDuration *prometheus.HistogramVec
	embeddingErrors   *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors, including Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		assemblies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feature_vectors_total",
			Help:      "Feature vector assemblies by outcome.",
		}, []string{"outcome"}),
		assemblyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feature_assembly_seconds",
			Help:      "Time to assemble one feature vector.",
			Buckets:   prometheus.DefBuckets,
		}),
		embeddingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_seconds",
			Help:      "Embedding provider latency by document side.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"target"}),
		embeddingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_errors_total",
			Help:      "Embedding provider failures by document side.",
		}, []string{"target"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.assemblies,
		m.assemblyDuration,
		m.embeddingDuration,
		m.embeddingErrors,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveEmbedding records one embedding call.
func (m *Metrics) ObserveEmbedding(target string, elapsed time.Duration, err error) {
	m.embeddingDuration.WithLabelValues(target).Observe(elapsed.Seconds())
	if err != nil {
		m.embeddingErrors.WithLabelValues(target).Inc()
	}
}

// ObserveAssembly records one feature vector assembly.
func (m *Metrics) ObserveAssembly(elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.assemblies.WithLabelValues(outcome).Inc()
	m.assemblyDuration.Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
