// Package metrics registers the API's Prometheus metrics against the default
// registry. They are exposed by the gateway at GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal is labelled by the route template, not the raw URL.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tennis_http_requests_total",
			Help: "HTTP requests processed, by method, route template and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tennis_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// MonitorCyclesTotal counts scan cycles by result: "ok" or "error".
	MonitorCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tennis_monitor_scan_cycles_total",
			Help: "Suspicious activity scan cycles, by result.",
		},
		[]string{"result"},
	)

	MonitorFlaggedUsersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tennis_monitor_flagged_users_total",
			Help: "Users newly added to the monitored users table.",
		},
	)

	ActionLogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tennis_action_log_entries_total",
			Help: "Action log entries appended, by action.",
		},
		[]string{"action"},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tennis_websocket_clients",
			Help: "Currently connected WebSocket clients.",
		},
	)
)

// Middleware records request count and latency per route template.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
