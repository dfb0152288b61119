package domain

import "time"

// SloDefinition describes one service-level objective an SloDefinition
// evaluator checks metric samples against.
type SloDefinition struct {
	SloID                     string       `json:"slo_id" validate:"required"`
	Name                      string       `json:"name" validate:"required"`
	Indicator                 SloIndicator `json:"indicator" validate:"required"`
	Operator                  Operator     `json:"operator" validate:"required,oneof=lt lte gt gte eq neq"`
	Threshold                 float64      `json:"threshold"`
	Window                    string       `json:"window" validate:"required"`
	Provider                  string       `json:"provider,omitempty"`
	Model                     string       `json:"model,omitempty"`
	Environment               string       `json:"environment,omitempty"`
	IsSLA                     bool         `json:"is_sla"`
	SLAPenaltyTier            *int         `json:"sla_penalty_tier,omitempty" validate:"omitempty,gte=1,lte=5"`
	WarningThresholdPercentage float64     `json:"warning_threshold_percentage" validate:"gte=0,lte=100"`
	Enabled                   bool         `json:"enabled"`
}

// DefaultWarningThresholdPercentage is applied when a caller omits the field
// (spec default 80).
const DefaultWarningThresholdPercentage = 80.0

// MetricSample is one observed measurement of an indicator, evaluated
// against zero or more matching SloDefinitions.
type MetricSample struct {
	MetricID     string       `json:"metric_id" validate:"required"`
	Indicator    SloIndicator `json:"indicator" validate:"required"`
	Value        float64      `json:"value"`
	Window       string       `json:"window" validate:"required"`
	Timestamp    time.Time    `json:"timestamp" validate:"required"`
	SampleCount  *int         `json:"sample_count,omitempty" validate:"omitempty,gte=1"`
	Provider     string       `json:"provider,omitempty"`
	Model        string       `json:"model,omitempty"`
	Environment  string       `json:"environment,omitempty"`
}

// HistoricalContext is optional caller-supplied history used by the SLO
// evaluator's confidence and breach-type derivation. It is never computed
// across requests by the agent itself.
type HistoricalContext struct {
	PreviousValues   []float64 `json:"previous_values,omitempty"`
	PreviousBreaches int       `json:"previous_breaches"`
	LastBreachAt     *time.Time `json:"last_breach_at,omitempty"`
	Average          float64   `json:"average"`
	P95              float64   `json:"p95"`
	Trend            Trend     `json:"trend,omitempty"`
}
