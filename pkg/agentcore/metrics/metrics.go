// Package metrics exposes the Prometheus collectors every agent process
// registers: HTTP request counts/latency, DecisionEvents persisted,
// aborted requests by reason, and outbound gateway call outcomes. Grounded
// on the teacher's sibling observability.Metrics struct — one promauto
// collector per concern, assembled once at process startup and passed
// through rather than read off the global registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the set of collectors one agent process registers.
type Metrics struct {
	// HTTPRequests counts requests by method, path, and status code.
	HTTPRequests *prometheus.CounterVec
	// HTTPRequestDuration measures handler latency in seconds.
	HTTPRequestDuration *prometheus.HistogramVec

	// DecisionEventsPersisted counts successfully persisted DecisionEvents
	// by decision_type.
	DecisionEventsPersisted *prometheus.CounterVec

	// RequestsAborted counts requests that ended in Aborted, by reason.
	RequestsAborted *prometheus.CounterVec

	// GatewayCallDuration measures outbound persistence-gateway call
	// latency in seconds, by operation and outcome.
	GatewayCallDuration *prometheus.HistogramVec

	// AnalysisConfidence records the confidence score an analytical
	// component assigned, by decision_type.
	AnalysisConfidence *prometheus.HistogramVec
}

// New constructs and registers every collector against reg. Passing
// prometheus.NewRegistry() isolates tests; passing nil creates the
// collectors without registering them with any registry (promauto.With(nil)
// does no registration).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 1.5, 5},
			},
			[]string{"method", "path"},
		),
		DecisionEventsPersisted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_decision_events_persisted_total",
				Help: "Total number of DecisionEvents persisted, by decision type",
			},
			[]string{"decision_type"},
		),
		RequestsAborted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_requests_aborted_total",
				Help: "Total number of requests that ended Aborted, by reason",
			},
			[]string{"reason"},
		),
		GatewayCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_gateway_call_duration_seconds",
				Help:    "Duration of outbound persistence-gateway calls in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation", "outcome"},
		),
		AnalysisConfidence: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_analysis_confidence",
				Help:    "Confidence score assigned by an analytical component",
				Buckets: []float64{0.1, 0.25, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1.0},
			},
			[]string{"decision_type"},
		),
	}
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPersisted records one successfully persisted DecisionEvent.
func (m *Metrics) RecordPersisted(decisionType string) {
	m.DecisionEventsPersisted.WithLabelValues(decisionType).Inc()
}

// RecordAbort records one request that ended Aborted.
func (m *Metrics) RecordAbort(reason string) {
	m.RequestsAborted.WithLabelValues(reason).Inc()
}

// RecordGatewayCall records one outbound gateway call's outcome and latency.
func (m *Metrics) RecordGatewayCall(operation, outcome string, duration time.Duration) {
	m.GatewayCallDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// RecordConfidence records an analytical component's confidence score.
func (m *Metrics) RecordConfidence(decisionType string, confidence float64) {
	m.AnalysisConfidence.WithLabelValues(decisionType).Observe(confidence)
}
