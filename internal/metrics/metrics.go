// Package metrics holds the Prometheus collectors for the signals and pricing services.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes used as label values.
const (
	OutcomeOK         = "ok"
	OutcomeBadRequest = "bad_request"
	OutcomeMalformed  = "malformed_input"
	OutcomeUpstream   = "upstream_error"
	OutcomeInternal   = "internal_error"
	CacheHit          = "hit"
	CacheMiss         = "miss"
)

// Metrics holds all Prometheus metrics of the service.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal       *prometheus.CounterVec   // labels: endpoint, outcome
	UpstreamFetchDur    *prometheus.HistogramVec // labels: source
	CacheLookupsTotal   *prometheus.CounterVec   // labels: result
	IndicatorComputeDur prometheus.Histogram
	IndicatorPoints     *prometheus.GaugeVec // labels: indicator
	MalformedInputTotal prometheus.Counter
	WarmupRunsTotal     *prometheus.CounterVec // labels: outcome
}

// New registers and returns all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signals_requests_total",
			Help: "HTTP requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		UpstreamFetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signals_upstream_fetch_seconds",
			Help:    "Latency of bar fetches from the price source",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		CacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signals_cache_lookups_total",
			Help: "Bar cache lookups by result",
		}, []string{"result"}),
		IndicatorComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signals_indicator_compute_seconds",
			Help:    "Time spent normalizing bars and computing indicators",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		IndicatorPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signals_indicator_points",
			Help: "Points emitted by the most recent computation per indicator",
		}, []string{"indicator"}),
		MalformedInputTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signals_malformed_input_total",
			Help: "Bar sequences rejected by the series normalizer",
		}),
		WarmupRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signals_warmup_runs_total",
			Help: "Cache warm-up fetches by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.UpstreamFetchDur,
		m.CacheLookupsTotal,
		m.IndicatorComputeDur,
		m.IndicatorPoints,
		m.MalformedInputTotal,
		m.WarmupRunsTotal,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFetch records the duration of one upstream fetch.
func (m *Metrics) ObserveFetch(source string, start time.Time) {
	m.UpstreamFetchDur.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}
