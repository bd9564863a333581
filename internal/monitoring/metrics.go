// internal/monitoring/metrics.go
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the search pipeline. All
// observation methods are nil-receiver safe so callers can run unmetered.
type Metrics struct {
	registry *prometheus.Registry

	searchesTotal     prometheus.Counter
	searchDuration    prometheus.Histogram
	listingsScraped   *prometheus.CounterVec
	adapterErrors     *prometheus.CounterVec
	duplicatesDropped prometheus.Counter
}

// New creates a metrics set backed by its own registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pricescout"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		searchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Number of aggregated searches performed.",
		}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock duration of aggregated searches.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		listingsScraped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_scraped_total",
			Help:      "Listings returned per marketplace adapter.",
		}, []string{"source"}),
		adapterErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_errors_total",
			Help:      "Adapter fetches that failed and contributed no listings.",
		}, []string{"source"}),
		duplicatesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_dropped_total",
			Help:      "Near-duplicate listings removed during deduplication.",
		}),
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSearch(d time.Duration) {
	if m == nil {
		return
	}
	m.searchesTotal.Inc()
	m.searchDuration.Observe(d.Seconds())
}

func (m *Metrics) AddListings(source string, n int) {
	if m == nil {
		return
	}
	m.listingsScraped.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) AdapterError(source string) {
	if m == nil {
		return
	}
	m.adapterErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) AddDuplicatesDropped(n int) {
	if m == nil {
		return
	}
	m.duplicatesDropped.Add(float64(n))
}
