// Package metrics holds the Prometheus collectors of the API server.
//
// Usage:
//
//	RecordHTTPRequest("GET", "/api/libros/", 200, 12*time.Millisecond)
//	RecordReportRender("books-per-genre", OutcomeOK, 80*time.Millisecond)
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report render outcomes.
const (
	OutcomeOK               = "ok"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeError            = "error"
)

var (
	// HTTPRequestsTotal counts requests by method, matched route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookshelf_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ReportRendersTotal counts chart requests by report and outcome.
	ReportRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_report_renders_total",
			Help: "Total number of report renders",
		},
		[]string{"report", "outcome"},
	)

	// ReportRenderDuration covers aggregation plus PNG encoding.
	ReportRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bookshelf_report_render_duration_seconds",
			Help: "Duration of report aggregation and rendering in seconds",
			// chart rendering sits in the tens to hundreds of milliseconds
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"report"},
	)

	// RateLimitedTotal counts requests rejected by the per-client limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_rate_limited_total",
			Help: "Total number of rate limited requests",
		},
		[]string{"route"},
	)
)

func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordReportRender(report, outcome string, d time.Duration) {
	ReportRendersTotal.WithLabelValues(report, outcome).Inc()
	ReportRenderDuration.WithLabelValues(report).Observe(d.Seconds())
}

func RecordRateLimited(route string) {
	RateLimitedTotal.WithLabelValues(route).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
