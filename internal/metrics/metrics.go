// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcadia_http_requests_total",
		Help: "HTTP requests processed, by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arcadia_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcadia_bookings_created_total",
		Help: "Bookings settled successfully.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcadia_booking_conflicts_total",
		Help: "Reservations rejected because the slot was taken.",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcadia_bookings_cancelled_total",
		Help: "Bookings cancelled and refunded.",
	})

	TournamentRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcadia_tournament_registrations_total",
		Help: "Tournament registrations settled successfully.",
	})

	DepositsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcadia_deposits_total",
		Help: "Balance deposits recorded.",
	})
)

// Middleware records per-request counters and latency, keyed by the gin
// route template rather than the raw path.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
