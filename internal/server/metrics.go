package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rollscan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rollscan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	extractRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rollscan_extract_requests_total",
			Help: "Total number of extraction requests",
		},
		[]string{"input", "status"}, // input: image, pdf
	)

	extractDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rollscan_extract_duration_seconds",
			Help:    "Extraction run duration in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"input"},
	)

	recordsExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rollscan_records_extracted",
			Help:    "Voter records extracted per request",
			Buckets: []float64{0, 1, 5, 10, 30, 60, 120, 300, 900},
		},
	)

	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rollscan_upload_size_bytes",
			Help:    "Size of uploaded files in bytes",
			Buckets: []float64{10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024, 50 * 1024 * 1024},
		},
	)
)
