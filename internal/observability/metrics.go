package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the geocoding enrichment
// pipeline.
type Metrics struct {
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,empty,error}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeDuration prometheus.Histogram

	EnrichmentPasses   prometheus.Counter
	EnrichmentRunning  prometheus.Gauge
	EntriesResolved    prometheus.Counter
	PersistenceFailed  prometheus.Counter
	EnrichmentDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culture_explorer",
			Name:      "geocode_requests_total",
			Help:      "Upstream geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culture_explorer",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "culture_explorer",
			Name:      "geocode_request_duration_seconds",
			Help:      "Upstream geocoding request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EnrichmentPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "culture_explorer",
			Name:      "enrichment_passes_total",
			Help:      "Completed enrichment passes.",
		}),
		EnrichmentRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "culture_explorer",
			Name:      "enrichment_running",
			Help:      "1 while an enrichment pass is in flight.",
		}),
		EntriesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "culture_explorer",
			Name:      "entries_resolved_total",
			Help:      "Entries that received coordinates from enrichment.",
		}),
		PersistenceFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "culture_explorer",
			Name:      "coordinate_persistence_failures_total",
			Help:      "Best-effort coordinate write-backs that failed.",
		}),
		EnrichmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "culture_explorer",
			Name:      "enrichment_pass_duration_seconds",
			Help:      "Duration of a complete enrichment pass.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}),
	}

	prometheus.MustRegister(
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeDuration,
		m.EnrichmentPasses,
		m.EnrichmentRunning,
		m.EntriesResolved,
		m.PersistenceFailed,
		m.EnrichmentDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// construct as many instances as they like.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "culture_explorer", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "culture_explorer", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "culture_explorer", Name: "geocode_request_duration_seconds"}),
		EnrichmentPasses:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "culture_explorer", Name: "enrichment_passes_total"}),
		EnrichmentRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "culture_explorer", Name: "enrichment_running"}),
		EntriesResolved:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "culture_explorer", Name: "entries_resolved_total"}),
		PersistenceFailed:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "culture_explorer", Name: "coordinate_persistence_failures_total"}),
		EnrichmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "culture_explorer", Name: "enrichment_pass_duration_seconds"}),
	}
}
