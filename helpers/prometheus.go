package helpers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of the feed service
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   prometheus.Counter
	requestDuration prometheus.Histogram
	followActions   *prometheus.CounterVec
}

// NewMetrics creates a registry with the go and process collectors
// plus the service ones
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Tracks the number of HTTP requests.",
		}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Tracks the latencies for HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}),
		followActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "follow_actions_total",
			Help: "Tracks follow and unfollow actions.",
		}, []string{"action"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.followActions,
	)

	return m
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests and observes their duration.
// /metrics itself is not counted
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		m.requestsTotal.Inc()

		next.ServeHTTP(w, r)

		m.requestDuration.Observe(time.Since(start).Seconds())
	})
}

// IncrementFollow counts a follow ("follow") or unfollow ("unfollow")
func (m *Metrics) IncrementFollow(action string) {
	m.followActions.WithLabelValues(action).Inc()
}
