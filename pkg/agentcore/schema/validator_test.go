package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func TestParseStrict_RejectsUnknownFields(t *testing.T) {
	val := New()
	raw := []byte(`{"span_id":"s1","trace_id":"t1","provider":"openai","model":"gpt-4","input":{"kind":"text","text":"hi"},"latency":{"start_time":"2026-01-01T00:00:00Z","end_time":"2026-01-01T00:00:01Z","total_ms":1000},"status":"OK","bogus_field":true}`)

	var ti domain.TelemetryInput
	errs := val.ParseStrict(raw, &ti)
	require.NotEmpty(t, errs)
	assert.Equal(t, "unknown_field", errs[0].Code)
}

func TestParseStrict_ValidPayload(t *testing.T) {
	val := New()
	raw := []byte(`{"span_id":"s1","trace_id":"t1","provider":"openai","model":"gpt-4","input":{"kind":"text","text":"hi"},"latency":{"start_time":"2026-01-01T00:00:00Z","end_time":"2026-01-01T00:00:01Z","total_ms":1000},"status":"OK"}`)

	var ti domain.TelemetryInput
	errs := val.ParseStrict(raw, &ti)
	assert.Empty(t, errs)
	assert.Equal(t, "s1", ti.SpanID)
}

func TestValidateStruct_ConstitutionalLiteral(t *testing.T) {
	val := New()
	ev := &domain.DecisionEvent{
		SourceAgent:        "failure-classification-agent",
		Domain:             "failure",
		Phase:              domain.Phase,
		Layer:              domain.Layer,
		AgentID:            "agent-1",
		AgentVersion:       "1.0.0",
		DecisionType:       "failure_classification",
		EventType:          "failure_signal",
		InputsHash:         "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd",
		Outputs:            []any{map[string]any{"category": "unknown"}},
		Confidence:         1.0,
		ConstraintsApplied: []string{"x"},
		EvidenceRefs:       nil,
		ExecutionRef:       "exec-1",
	}
	ev.Timestamp = ev.Timestamp

	errs := val.ValidateStruct(ev)
	require.NotEmpty(t, errs)

	var found bool
	for _, fe := range errs {
		if fe.Path == "constraints_applied" {
			found = true
			assert.Equal(t, "invalid_literal", fe.Code)
		}
	}
	assert.True(t, found, "expected a constraints_applied error, got %+v", errs)
}

func TestValidateStruct_PhaseLiteral(t *testing.T) {
	val := New()
	ev := validDecisionEvent()
	ev.Phase = "phase2"

	errs := val.ValidateStruct(ev)
	require.NotEmpty(t, errs)
	assert.Equal(t, "phase", errs[0].Path)
	assert.Equal(t, "invalid_literal", errs[0].Code)
}

func TestParseStrict_RejectsLatencyEndBeforeStart(t *testing.T) {
	val := New()
	raw := []byte(`{"span_id":"s1","trace_id":"t1","provider":"openai","model":"gpt-4","input":{"kind":"text","text":"hi"},"latency":{"start_time":"2026-01-01T00:00:01Z","end_time":"2026-01-01T00:00:00Z","total_ms":1000},"status":"OK"}`)

	var ti domain.TelemetryInput
	errs := val.ParseStrict(raw, &ti)
	require.NotEmpty(t, errs)

	var found bool
	for _, fe := range errs {
		if fe.Path == "latency.end_time" {
			found = true
			assert.Equal(t, "invariant_violation", fe.Code)
		}
	}
	assert.True(t, found, "expected a latency.end_time error, got %+v", errs)
}

func TestParseStrict_RejectsTokenTotalBelowSum(t *testing.T) {
	val := New()
	raw := []byte(`{"span_id":"s1","trace_id":"t1","provider":"openai","model":"gpt-4","input":{"kind":"text","text":"hi"},"token_usage":{"prompt":10,"completion":10,"total":5},"latency":{"start_time":"2026-01-01T00:00:00Z","end_time":"2026-01-01T00:00:01Z","total_ms":1000},"status":"OK"}`)

	var ti domain.TelemetryInput
	errs := val.ParseStrict(raw, &ti)
	require.NotEmpty(t, errs)

	var found bool
	for _, fe := range errs {
		if fe.Path == "token_usage.total" {
			found = true
			assert.Equal(t, "invariant_violation", fe.Code)
		}
	}
	assert.True(t, found, "expected a token_usage.total error, got %+v", errs)
}

func TestTokenUsage_ValidAcceptsExactSum(t *testing.T) {
	assert.True(t, domain.TokenUsage{Prompt: 10, Completion: 5, Total: 15}.Valid())
}

func TestLatency_ValidRejectsEndBeforeStart(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, domain.Latency{StartTime: start, EndTime: end}.Valid())
}

func validDecisionEvent() *domain.DecisionEvent {
	return &domain.DecisionEvent{
		SourceAgent:        "failure-classification-agent",
		Domain:             "failure",
		Phase:              domain.Phase,
		Layer:              domain.Layer,
		AgentID:            "agent-1",
		AgentVersion:       "1.0.0",
		DecisionType:       "failure_classification",
		EventType:          "failure_signal",
		InputsHash:         "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd",
		Outputs:            []any{map[string]any{"category": "unknown"}},
		Confidence:         1.0,
		ConstraintsApplied: nil,
		ExecutionRef:       "exec-1",
	}
}
