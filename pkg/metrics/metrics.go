package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every metric the service exports.
type Registry struct {
	HttpRequestsTotal       *prometheus.CounterVec
	HttpRequestDuration     *prometheus.HistogramVec
	DatabaseQueryTotal      *prometheus.CounterVec
	DatabaseQueryDuration   *prometheus.HistogramVec
	CacheHitsTotal          *prometheus.CounterVec
	CacheMissesTotal        *prometheus.CounterVec
	AuthOperationsTotal     *prometheus.CounterVec
	EventsPublishedTotal    *prometheus.CounterVec
	EventPublishErrorsTotal *prometheus.CounterVec
}

func NewRegistry() *Registry {
	registry := &Registry{
		HttpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		DatabaseQueryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DatabaseQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "database_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"operation", "table"},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache"},
		),
		AuthOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_operations_total",
				Help: "Total number of auth operations (register, login, refresh, logout)",
			},
			[]string{"operation", "status"},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Total number of domain events published",
			},
			[]string{"event_type"},
		),
		EventPublishErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_publish_errors_total",
				Help: "Total number of failed event publishes",
			},
			[]string{"event_type"},
		),
	}

	prometheus.MustRegister(
		registry.HttpRequestsTotal,
		registry.HttpRequestDuration,
		registry.DatabaseQueryTotal,
		registry.DatabaseQueryDuration,
		registry.CacheHitsTotal,
		registry.CacheMissesTotal,
		registry.AuthOperationsTotal,
		registry.EventsPublishedTotal,
		registry.EventPublishErrorsTotal,
	)

	return registry
}

// GinMiddleware records request counts and latencies per route.
func GinMiddleware(registry *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		registry.HttpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		registry.HttpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
	}
}

// TrackDatabaseQuery records one database query.
func (r *Registry) TrackDatabaseQuery(operation, table, status string, duration float64) {
	r.DatabaseQueryTotal.WithLabelValues(operation, table, status).Inc()
	r.DatabaseQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// TrackCacheHit records a cache hit.
func (r *Registry) TrackCacheHit(cache string) {
	r.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// TrackCacheMiss records a cache miss.
func (r *Registry) TrackCacheMiss(cache string) {
	r.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// TrackAuthOperation records the outcome of an auth operation.
func (r *Registry) TrackAuthOperation(operation, status string) {
	r.AuthOperationsTotal.WithLabelValues(operation, status).Inc()
}

// TrackEventPublished records one published domain event.
func (r *Registry) TrackEventPublished(eventType string, err error) {
	if err != nil {
		r.EventPublishErrorsTotal.WithLabelValues(eventType).Inc()
		return
	}
	r.EventsPublishedTotal.WithLabelValues(eventType).Inc()
}
