// Package metrics exposes Prometheus collectors for the recruiting API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests by route, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruiting_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recruiting_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// StageTransitionsTotal counts application stage changes by target stage and outcome.
	StageTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruiting_stage_transitions_total",
			Help: "Total number of application stage transitions",
		},
		[]string{"stage", "outcome"},
	)

	// NotificationsTotal counts candidate notifications by stage and outcome.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruiting_notifications_total",
			Help: "Total number of candidate notification attempts",
		},
		[]string{"stage", "outcome"},
	)

	// SearchQueriesTotal counts job search queries by outcome.
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruiting_search_queries_total",
			Help: "Total number of job search queries",
		},
		[]string{"outcome"},
	)

	// ActiveSessions tracks the number of live authenticated sessions.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recruiting_active_sessions",
			Help: "Number of active authenticated sessions",
		},
	)
)

// ObserveRequest records a completed HTTP request.
func ObserveRequest(route, method, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordStageTransition records a stage change attempt.
func RecordStageTransition(stage string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	StageTransitionsTotal.WithLabelValues(stage, outcome).Inc()
}

// RecordNotification records a notification attempt for a stage.
func RecordNotification(stage, outcome string) {
	NotificationsTotal.WithLabelValues(stage, outcome).Inc()
}
