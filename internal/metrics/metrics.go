package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ImportRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_import_records_total",
			Help: "Total catalog records committed by CSV imports",
		},
	)

	CashCutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cash_cuts_total",
			Help: "Cash cuts closed, labeled by whether they balanced",
		},
		[]string{"balanced"},
	)

	AssistantRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Assistant completions by outcome",
		},
		[]string{"outcome"},
	)
)
