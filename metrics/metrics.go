package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Ingestion metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_runs_total",
			Help: "Total number of connector runs by terminal status",
		},
		[]string{"connector", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connector_run_duration_seconds",
			Help:    "Connector run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"connector"},
	)

	ItemsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_items_ingested_total",
			Help: "Total number of items upserted, split by insert vs refresh",
		},
		[]string{"connector", "result"},
	)

	MalformedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_malformed_records_total",
			Help: "Raw records skipped because they could not be normalized",
		},
		[]string{"connector"},
	)

	// NATS metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of NATS messages published",
		},
		[]string{"subject", "status"},
	)
)
