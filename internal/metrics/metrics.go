package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ordmap_loads_total",
		Help: "Document loads by result",
	}, []string{"result"})
	LoadDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ordmap_load_duration_ms",
		Help:    "Fetch and index build duration in milliseconds",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
	})
	Annotations = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ordmap_annotations",
		Help: "Annotations in the loaded index by kind",
	}, []string{"kind"})
	Rendered = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ordmap_rendered_annotations",
		Help: "Annotations currently rendered",
	})
	DroppedEntriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ordmap_dropped_entries_total",
		Help: "Coordinate entries dropped by validation",
	})
	TogglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ordmap_visibility_changes_total",
		Help: "Visibility changes by scope",
	}, []string{"scope"})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ordmap_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ordmap_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(LoadsTotal)
	prometheus.MustRegister(LoadDurationMs)
	prometheus.MustRegister(Annotations)
	prometheus.MustRegister(Rendered)
	prometheus.MustRegister(DroppedEntriesTotal)
	prometheus.MustRegister(TogglesTotal)
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }

// Middleware counts requests per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}
