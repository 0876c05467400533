package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors on a private registry so several
// handlers (e.g. in tests) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the translate collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "livetl_translate_requests_total",
				Help: "Translate requests by HTTP status code",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "livetl_engine_duration_seconds",
				Help:    "Duration of engine translate calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"engine"},
		),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

// CacheStats is implemented by engines that count cache lookups.
type CacheStats interface {
	Hits() uint64
	Misses() uint64
}

// RegisterCache exposes hit and miss counters read from stats.
func (m *Metrics) RegisterCache(stats CacheStats) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "livetl_cache_hits_total",
			Help: "Translations served from the cache",
		}, func() float64 { return float64(stats.Hits()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "livetl_cache_misses_total",
			Help: "Translations that went to the engine",
		}, func() float64 { return float64(stats.Misses()) }),
	)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeRequest(status int) {
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *Metrics) observeEngine(engine string, d time.Duration) {
	m.duration.WithLabelValues(engine).Observe(d.Seconds())
}
