package postmortem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/classify"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func failureEvent(spanID string, start time.Time, httpStatus int, message string) domain.FailureEvent {
	return domain.FailureEvent{
		TelemetryInput: domain.TelemetryInput{
			SpanID:  spanID,
			TraceID: "trace-1",
			Provider: domain.ProviderOpenAI,
			Model:    "gpt-4",
			Input:    domain.CallInput{Kind: domain.InputText, Text: "hi"},
			Latency:  domain.Latency{StartTime: start, EndTime: start.Add(time.Second)},
			Status:   domain.StatusError,
		},
		Error: domain.ErrorDetail{Message: message, HTTPStatus: &httpStatus},
	}
}

func TestSynthesize_OrdersTimelineChronologically(t *testing.T) {
	engine, err := classify.New(classify.DefaultRules())
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.FailureEvent{
		failureEvent("s2", base.Add(time.Minute), 429, "rate limited"),
		failureEvent("s1", base, 429, "rate limited"),
	}

	report, classifications := Synthesize([]string{"s1", "s2"}, events, engine)

	require.Len(t, report.Timeline, 2)
	assert.Equal(t, "s1", report.Timeline[0].SpanID)
	assert.Equal(t, "s2", report.Timeline[1].SpanID)
	assert.Equal(t, "upstream", report.RootCause)
	require.Len(t, classifications, 2)
	assert.Equal(t, domain.CategoryProviderRateLimit, classifications[0].Category)
}

func TestSynthesize_ContributingFactorsDeduplicated(t *testing.T) {
	engine, err := classify.New(classify.DefaultRules())
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.FailureEvent{
		failureEvent("s1", base, 429, "rate limited"),
		failureEvent("s2", base.Add(time.Minute), 429, "rate limited"),
	}

	report, _ := Synthesize([]string{"s1", "s2"}, events, engine)
	assert.Len(t, report.ContributingFactors, 1)
}
