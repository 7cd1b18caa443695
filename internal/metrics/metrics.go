package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ImageCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fig_image_cache_hits_total",
		Help: "FIG image proxy requests served from cache.",
	})

	ImageCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fig_image_cache_misses_total",
		Help: "FIG image proxy requests that went upstream.",
	})
)

// Middleware records request counts and latency per echo route.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		handlerErr := next(c)

		route := c.Path()
		if route == "" {
			route = "unknown"
		}
		status := c.Response().Status
		if handlerErr != nil {
			if he, ok := handlerErr.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		requestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
		return handlerErr
	}
}

// Handler exposes /metrics.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
