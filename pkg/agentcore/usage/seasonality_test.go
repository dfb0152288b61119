package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func TestComputeSeasonality_BelowMinGroupsSkipsPattern(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	buckets := []domain.TimeBucket{
		{BucketStart: base, RequestCount: 10},
		{BucketStart: base.Add(time.Hour), RequestCount: 10},
	}
	patterns := computeSeasonality(buckets)
	for _, p := range patterns {
		assert.NotEqual(t, "hour_of_day", p.PatternType)
	}
}

func TestComputeSeasonality_DetectsHourlyPeak(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var buckets []domain.TimeBucket
	for day := 0; day < 3; day++ {
		for hour := 0; hour < 24; hour++ {
			count := 10
			if hour == 9 {
				count = 500
			}
			buckets = append(buckets, domain.TimeBucket{
				BucketStart:  base.Add(time.Duration(day*24+hour) * time.Hour),
				RequestCount: count,
			})
		}
	}
	patterns := computeSeasonality(buckets)
	var hourly *domain.SeasonalityPattern
	for i := range patterns {
		if patterns[i].PatternType == "hour_of_day" {
			hourly = &patterns[i]
		}
	}
	if assert.NotNil(t, hourly) {
		assert.True(t, hourly.Detected)
		assert.Contains(t, hourly.PeakPeriods, 9)
	}
}
