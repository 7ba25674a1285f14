// Package metrics defines the Prometheus collectors the server exports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "billsplitter"

// Metrics holds every collector, registered on a private registry.
// The Observe methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration  *prometheus.HistogramVec
	SplitsComputed   prometheus.Counter
	PaymentsPerSplit prometheus.Histogram
	OCRRequests      *prometheus.CounterVec
	OCRDuration      *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
}

// New creates and registers all collectors, plus the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests by transport, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport", "route", "status"}),
		SplitsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_computed_total",
			Help:      "Number of outings settled.",
		}),
		PaymentsPerSplit: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payments_per_split",
			Help:      "Number of payments needed to settle an outing.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		OCRRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ocr_requests_total",
			Help:      "Receipt extractions by provider and outcome.",
		}, []string{"provider", "outcome"}),
		OCRDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ocr_duration_seconds",
			Help:      "Time spent waiting on the OCR provider.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ocr_cache_lookups_total",
			Help:      "OCR cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.SplitsComputed,
		m.PaymentsPerSplit,
		m.OCRRequests,
		m.OCRDuration,
		m.CacheLookups,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
// A nil *Metrics serves 404.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one API request.
func (m *Metrics) ObserveRequest(transport, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(transport, route, status).Observe(elapsed.Seconds())
}

// ObserveSplit records a computed settlement.
func (m *Metrics) ObserveSplit(payments int) {
	if m == nil {
		return
	}
	m.SplitsComputed.Inc()
	m.PaymentsPerSplit.Observe(float64(payments))
}

// ObserveOCR records one call to an OCR provider.
func (m *Metrics) ObserveOCR(provider string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.OCRRequests.WithLabelValues(provider, outcome).Inc()
	m.OCRDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveCacheLookup records an OCR cache lookup: "hit", "miss" or "error".
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
