// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConfigLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_config_loads_total",
			Help: "Total insight configuration load attempts by outcome",
		},
		[]string{"outcome"},
	)

	ConfigLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_config_load_failures_total",
			Help: "Insight configuration load failures by kind",
		},
		[]string{"kind"},
	)

	BoardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_board_refreshes_total",
			Help: "Board document replacements by source",
		},
		[]string{"source"},
	)

	ActionExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_action_executions_total",
			Help: "Remediation action executions by result",
		},
		[]string{"result"},
	)

	AssistantQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_total",
			Help: "Query assistant requests by status",
		},
		[]string{"status"},
	)

	AssistantQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_query_duration_seconds",
			Help: "Duration of query assistant requests in seconds",
		},
		[]string{"status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path", "status"},
	)
)
