// Package observability holds the prometheus metrics of the api server.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "yatube"

const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

type Metrics struct {
	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	PostsCreatedTotal      prometheus.Counter
	CommentsCreatedTotal   prometheus.Counter
	FragmentCacheLookups   *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates every metric and registers them on a fresh registry, so
// several servers (e.g. in tests) never collide.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of http requests by route and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "Http request latency by route",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"route"},
		),
		PostsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "posts_created_total",
				Help:      "Total number of posts created",
			},
		),
		CommentsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "comments_created_total",
				Help:      "Total number of comments created",
			},
		),
		FragmentCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "fragment_cache_lookups_total",
				Help:      "Fragment cache lookups by fragment and result",
			},
			[]string{"fragment", "result"},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSeconds,
		m.PostsCreatedTotal,
		m.CommentsCreatedTotal,
		m.FragmentCacheLookups,
		prometheus.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records every request under its route pattern, unmatched paths
// are grouped under "unmatched".
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDurationSeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// CacheLookup counts one lookup of fragment.
func (m *Metrics) CacheLookup(fragment string, hit bool) {
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.FragmentCacheLookups.WithLabelValues(fragment, result).Inc()
}
