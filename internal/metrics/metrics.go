// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recipe generation outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeModelError  = "model_error"
	OutcomeParseError  = "parse_error"
	OutcomeUnavailable = "unavailable"
)

// Collector holds every metric the service records. Each Collector owns its
// registry, so tests can create as many as they need.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	recipeGenerations   *prometheus.CounterVec
	recipeGenDuration   prometheus.Histogram
	swipesTotal         *prometheus.CounterVec
	usersRegistered     prometheus.Counter
	rateLimited         prometheus.Counter
}

// New creates a collector registered on a fresh registry, together with
// the Go runtime and process collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		recipeGenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_generations_total",
				Help: "Recipe generation attempts by outcome",
			},
			[]string{"outcome"},
		),
		recipeGenDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recipe_generation_duration_seconds",
				Help:    "Time spent waiting for the recipe model",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
		),
		swipesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swipes_total",
				Help: "Recorded swipes by direction",
			},
			[]string{"direction"},
		),
		usersRegistered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "users_registered_total",
				Help: "Total number of users registered",
			},
		),
		rateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_limited_requests_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}
}

// HTTPMiddleware records request counts and latencies per route.
func (m *Collector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// The recording methods are no-ops on a nil Collector.

func (m *Collector) RecipeGenerated(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.recipeGenerations.WithLabelValues(outcome).Inc()
	if outcome != OutcomeUnavailable {
		m.recipeGenDuration.Observe(d.Seconds())
	}
}

func (m *Collector) Swiped(direction string) {
	if m == nil {
		return
	}
	m.swipesTotal.WithLabelValues(direction).Inc()
}

func (m *Collector) UserRegistered() {
	if m == nil {
		return
	}
	m.usersRegistered.Inc()
}

func (m *Collector) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Registry exposes the underlying registry.
func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
