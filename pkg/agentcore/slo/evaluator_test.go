package slo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func TestEvaluate_GTBreachWhenBelowThreshold(t *testing.T) {
	defs := []domain.SloDefinition{{
		SloID: "availability-slo", Indicator: domain.IndicatorAvailability,
		Operator: domain.OperatorGT, Threshold: 99.9, Window: "1h", Enabled: true,
		WarningThresholdPercentage: 80,
	}}
	metrics := []domain.MetricSample{{
		MetricID: "m1", Indicator: domain.IndicatorAvailability, Value: 99.0, Window: "1h", Timestamp: time.Now(),
	}}

	result := Evaluate(defs, metrics, nil, Options{})
	if assert.Len(t, result.Violations, 1) {
		assert.Equal(t, domain.BreachTypeSLO, result.Violations[0].BreachType)
	}
	assert.Equal(t, domain.SloStatusBreached, result.SloStatuses[0].Status)
}

func TestEvaluate_SLABreachIsCritical(t *testing.T) {
	defs := []domain.SloDefinition{{
		SloID: "sla-slo", Indicator: domain.IndicatorErrorRate,
		Operator: domain.OperatorLT, Threshold: 0.01, Window: "1h", Enabled: true, IsSLA: true,
		WarningThresholdPercentage: 80,
	}}
	metrics := []domain.MetricSample{{
		MetricID: "m1", Indicator: domain.IndicatorErrorRate, Value: 0.05, Window: "1h", Timestamp: time.Now(),
	}}

	result := Evaluate(defs, metrics, nil, Options{})
	if assert.Len(t, result.Violations, 1) {
		assert.Equal(t, domain.BreachTypeSLA, result.Violations[0].BreachType)
		assert.Equal(t, domain.SeverityCritical, result.Violations[0].Severity)
	}
}

func TestEvaluate_NoMatchingMetricsIsUnknown(t *testing.T) {
	defs := []domain.SloDefinition{{
		SloID: "slo-1", Indicator: domain.IndicatorThroughput,
		Operator: domain.OperatorGTE, Threshold: 100, Window: "1h", Enabled: true,
	}}
	result := Evaluate(defs, nil, nil, Options{})
	assert.Equal(t, domain.SloStatusUnknown, result.SloStatuses[0].Status)
}

func TestEvaluate_ConsecutiveBreachSeverityEscalates(t *testing.T) {
	defs := []domain.SloDefinition{{
		SloID: "slo-1", Indicator: domain.IndicatorLatencyP95,
		Operator: domain.OperatorLT, Threshold: 500, Window: "1h", Enabled: true,
		WarningThresholdPercentage: 80,
	}}
	metrics := []domain.MetricSample{{
		MetricID: "m1", Indicator: domain.IndicatorLatencyP95, Value: 600, Window: "1h", Timestamp: time.Now(),
	}}
	history := map[string]domain.HistoricalContext{"slo-1": {PreviousBreaches: 5}}

	result := Evaluate(defs, metrics, history, Options{})
	if assert.Len(t, result.Violations, 1) {
		assert.Equal(t, domain.BreachTypeConsecutive, result.Violations[0].BreachType)
		assert.Equal(t, domain.SeverityCritical, result.Violations[0].Severity)
	}
}

func TestBreachAgainst_AllOperators(t *testing.T) {
	assert.True(t, breachAgainst(domain.OperatorLT, 10, 10))
	assert.False(t, breachAgainst(domain.OperatorLT, 9, 10))
	assert.True(t, breachAgainst(domain.OperatorLTE, 11, 10))
	assert.False(t, breachAgainst(domain.OperatorLTE, 10, 10))
	assert.True(t, breachAgainst(domain.OperatorGT, 10, 10))
	assert.True(t, breachAgainst(domain.OperatorGTE, 9, 10))
	assert.True(t, breachAgainst(domain.OperatorEQ, 9, 10))
	assert.True(t, breachAgainst(domain.OperatorNEQ, 10, 10))
}

func TestDeviationPercentage_ZeroThresholdGuard(t *testing.T) {
	assert.Equal(t, float64(100), deviationPercentage(0, 5))
	assert.Equal(t, float64(0), deviationPercentage(0, 0))
}
