package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NotificationsEmitted counts notifications persisted by the fanout engine.
	// Labels: type (like, comment, reply)
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Subsystem: "fanout",
		Name:      "notifications_emitted_total",
		Help:      "Notifications persisted by the fanout engine",
	}, []string{"type"})

	// NotificationsFailed counts notifications lost because the store rejected them.
	// Labels: type
	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Subsystem: "fanout",
		Name:      "notifications_failed_total",
		Help:      "Notifications dropped after a store failure",
	}, []string{"type"})

	// NotificationsSkipped counts candidate recipients filtered out before delivery.
	// Labels: reason (self, duplicate)
	NotificationsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Subsystem: "fanout",
		Name:      "notifications_skipped_total",
		Help:      "Candidate recipients skipped by fanout rules",
	}, []string{"reason"})

	// UnreadCacheLookups counts unread-count cache lookups.
	// Labels: result (hit, miss, error)
	UnreadCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Subsystem: "cache",
		Name:      "unread_lookups_total",
		Help:      "Unread notification count cache lookups",
	}, []string{"result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulse",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pulse",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency per registered route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			httpLatency.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
