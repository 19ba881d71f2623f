package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parkspotter_admin_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})

	ResponseTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parkspotter_admin_http_response_time_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"method", "route"})

	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parkspotter_admin_backend_requests_total",
		Help: "Calls to the ParkSpotter backend by resource and outcome",
	}, []string{"resource", "outcome"})

	BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parkspotter_admin_backend_latency_seconds",
		Help:    "Latency of calls to the ParkSpotter backend",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"resource"})

	DegradedLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parkspotter_admin_degraded_loads_total",
		Help: "Resource loads that fell back to the previous snapshot",
	}, []string{"resource"})

	SkippedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parkspotter_admin_skipped_records_total",
		Help: "Records excluded while parsing or deriving views",
	}, []string{"kind"})

	ActiveWebsockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "parkspotter_admin_websocket_clients",
		Help: "Connected overview websocket clients",
	})
)
