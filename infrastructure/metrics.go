// infrastructure/metrics.go
package infrastructure

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vitovidale/ai-video-backend/domain"
)

type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	videoEvents *prometheus.CounterVec
}

// NewMetrics registers the service collectors, plus the Go and process
// collectors, on a fresh registry. storeUp feeds the database_up gauge and
// may be nil.
func NewMetrics(storeUp func() bool) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ai_video",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ai_video",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		videoEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ai_video",
			Name:      "video_events_total",
			Help:      "Video lifecycle transitions by event type.",
		}, []string{"event"}),
	}
	reg.MustRegister(
		m.requests,
		m.duration,
		m.videoEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if storeUp != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "ai_video",
			Name:      "database_up",
			Help:      "1 when the document store connection is usable.",
		}, func() float64 {
			if storeUp() {
				return 1
			}
			return 0
		}))
	}
	return m
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Notify counts lifecycle events; it makes Metrics a NotificationService.
func (m *Metrics) Notify(_ context.Context, event domain.VideoEvent) error {
	m.videoEvents.WithLabelValues(string(event.Type)).Inc()
	return nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
