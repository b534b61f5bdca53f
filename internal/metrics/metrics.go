// Package metrics exposes Prometheus metrics for tool dispatch.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. It
// implements tool.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	ToolExecutionsTotal     *prometheus.CounterVec
	ToolExecutionDuration   *prometheus.HistogramVec
	ValidationFailuresTotal *prometheus.CounterVec
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ToolExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saku_tool_executions_total",
				Help: "Total number of tool executions by outcome",
			},
			[]string{"tool", "status"},
		),
		ToolExecutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "saku_tool_execution_duration_seconds",
				Help:    "Duration of tool executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		ValidationFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saku_validation_failures_total",
				Help: "Total number of parameter validation violations",
			},
			[]string{"tool"},
		),
	}

	registry.MustRegister(
		m.ToolExecutionsTotal,
		m.ToolExecutionDuration,
		m.ValidationFailuresTotal,
	)

	return m
}

// ObserveExecution records one finished execution.
func (m *Metrics) ObserveExecution(tool, status string, duration time.Duration) {
	m.ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
	m.ToolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObserveValidationFailures records validation violations for one call.
func (m *Metrics) ObserveValidationFailures(tool string, count int) {
	m.ValidationFailuresTotal.WithLabelValues(tool).Add(float64(count))
}

// Handler returns an HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
