// Package metrics provides Prometheus metrics for the NF-e editor.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server or loader instance. Each
// instance owns its registry, so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	ExtractionsTotal    *prometheus.CounterVec
	MutationsTotal      *prometheus.CounterVec
	LineItems           prometheus.Histogram
	HTTPRequestDuration *prometheus.HistogramVec
	LoaderFilesTotal    *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.ExtractionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfe_extractions_total",
			Help: "Total number of document extractions",
		},
		[]string{"status"},
	)

	m.MutationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfe_mutations_total",
			Help: "Total number of document mutations",
		},
		[]string{"status"},
	)

	m.LineItems = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nfe_line_items",
			Help:    "Number of line items per extracted document",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 990},
		},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nfe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	m.LoaderFilesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfe_loader_files_total",
			Help: "Total number of inbox files handled by the loader",
		},
		[]string{"result"},
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordExtraction counts one extraction and, on success, its item count.
func (m *Metrics) RecordExtraction(items int, err error) {
	if err != nil {
		m.ExtractionsTotal.WithLabelValues("error").Inc()
		return
	}
	m.ExtractionsTotal.WithLabelValues("ok").Inc()
	m.LineItems.Observe(float64(items))
}

func (m *Metrics) RecordMutation(err error) {
	m.MutationsTotal.WithLabelValues(status(err)).Inc()
}

func (m *Metrics) RecordRequest(method, route string, code int, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}

func (m *Metrics) RecordLoaderFile(result string) {
	m.LoaderFilesTotal.WithLabelValues(result).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
