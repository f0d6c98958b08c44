// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuellog_http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuellog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	reportRecords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fuellog_report_records",
			Help:    "Number of refuel records that went into a yearly report.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)
	reportDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fuellog_report_duration_seconds",
			Help:    "Time spent loading and computing a yearly report.",
			Buckets: prometheus.DefBuckets,
		},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuellog_notifications_total",
			Help: "Outbound feedback notifications by channel and result.",
		},
		[]string{"channel", "result"},
	)
)

// ObserveHTTPRequest records one served request. route should be the
// matched route template, not the raw path, to keep label cardinality low.
func ObserveHTTPRequest(route, method string, status int, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveReport(records int, dur time.Duration) {
	reportRecords.Observe(float64(records))
	reportDurationSeconds.Observe(dur.Seconds())
}

func ObserveNotification(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	notificationsTotal.WithLabelValues(channel, result).Inc()
}
