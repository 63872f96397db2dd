// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Carousel outcomes.
const (
	OutcomeServed       = "served"
	OutcomeInsufficient = "insufficient_supply"
	OutcomeError        = "error"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// Catalog
	CarouselRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_carousel_requests_total",
			Help: "Total number of carousel selections by outcome",
		},
		[]string{"outcome"},
	)

	ProductViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_product_views_total",
			Help: "Total number of recorded product views",
		},
	)

	InvalidSortRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_invalid_sort_total",
			Help: "Total number of requests whose sort field was ignored",
		},
	)

	// Page cache
	PageCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_page_cache_hits_total",
			Help: "Total number of paged query cache hits",
		},
	)

	PageCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_page_cache_misses_total",
			Help: "Total number of paged query cache misses",
		},
	)

	// Tagging
	TaggingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_tagging_runs_total",
			Help: "Total number of keyphrase tagging runs by status",
		},
		[]string{"status"},
	)

	TagsAttached = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_tags_attached_total",
			Help: "Total number of tags attached by keyphrase extraction",
		},
	)
)

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCarousel records the outcome of a carousel selection.
func RecordCarousel(outcome string) {
	CarouselRequests.WithLabelValues(outcome).Inc()
}

// RecordTaggingRun records the outcome of one tagging call.
func RecordTaggingRun(err error, attached int) {
	if err != nil {
		TaggingRuns.WithLabelValues("error").Inc()
		return
	}
	TaggingRuns.WithLabelValues("success").Inc()
	TagsAttached.Add(float64(attached))
}
