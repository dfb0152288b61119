package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func TestAnalyze_SummaryAndFilterApply(t *testing.T) {
	window := domain.TimeWindow{
		Start:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC),
		Granularity: domain.GranularityHour,
	}
	events := []domain.TelemetryInput{
		{
			Provider: domain.ProviderOpenAI, Model: "gpt-4",
			Latency:  domain.Latency{StartTime: window.Start.Add(time.Minute)},
			Status:   domain.StatusOK,
			Metadata: domain.Metadata{UserID: "u1"},
		},
		{
			Provider: domain.ProviderAnthropic, Model: "claude",
			Latency:  domain.Latency{StartTime: window.Start.Add(time.Minute)},
			Status:   domain.StatusError,
			Metadata: domain.Metadata{UserID: "u2"},
		},
	}

	result := Analyze(events, window, domain.UsageFilters{Provider: "openai"}, domain.UsageOptions{})
	assert.Equal(t, 1, result.SampleSize)
	assert.Equal(t, 1, result.Summary.TotalRequests)
	assert.Nil(t, result.Trends)
	assert.Nil(t, result.Seasonality)
}

func TestAnalyze_OptInTrendsAndSeasonality(t *testing.T) {
	window := domain.TimeWindow{
		Start:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 2, 16, 0, 0, 0, time.UTC),
		Granularity: domain.GranularityHour,
	}
	result := Analyze(nil, window, domain.UsageFilters{}, domain.UsageOptions{IncludeTrends: true, IncludeSeasonality: true})
	assert.NotNil(t, result.Trends)
	assert.GreaterOrEqual(t, len(result.TimeSeries), minSampleSizeForTrends)
}

func TestAnalyze_OverallConfidenceFormula(t *testing.T) {
	window := domain.TimeWindow{
		Start:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC),
		Granularity: domain.GranularityHour,
	}
	result := Analyze(nil, window, domain.UsageFilters{}, domain.UsageOptions{})
	assert.Equal(t, float64(0), result.OverallConfidence)
}
