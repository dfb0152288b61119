package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func TestBucketCount_CeilsPartialWidth(t *testing.T) {
	window := domain.TimeWindow{
		Start:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 1, 2, 30, 0, 0, time.UTC),
		Granularity: domain.GranularityHour,
	}
	assert.Equal(t, 3, bucketCount(window))
}

func TestTimeBuckets_EmptyBucketsStillAppear(t *testing.T) {
	window := domain.TimeWindow{
		Start:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC),
		Granularity: domain.GranularityHour,
	}
	buckets := timeBuckets(nil, window)
	assert.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Equal(t, 0, b.RequestCount)
	}
}

func TestTimeBuckets_AssignsEventsAndAveragesLatency(t *testing.T) {
	window := domain.TimeWindow{
		Start:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC),
		Granularity: domain.GranularityHour,
	}
	events := []domain.TelemetryInput{
		{
			Latency:  domain.Latency{StartTime: window.Start.Add(10 * time.Minute), TotalMs: 100},
			Status:   domain.StatusOK,
			Metadata: domain.Metadata{UserID: "u1", SessionID: "s1"},
		},
		{
			Latency:  domain.Latency{StartTime: window.Start.Add(20 * time.Minute), TotalMs: 300},
			Status:   domain.StatusError,
			Metadata: domain.Metadata{UserID: "u1", SessionID: "s2"},
		},
		{
			Latency: domain.Latency{StartTime: window.Start.Add(90 * time.Minute), TotalMs: 50},
			Status:  domain.StatusOK,
		},
	}

	buckets := timeBuckets(events, window)
	assert.Len(t, buckets, 2)
	assert.Equal(t, 2, buckets[0].RequestCount)
	assert.Equal(t, 1, buckets[0].ErrorCount)
	assert.Equal(t, float64(200), buckets[0].AvgLatencyMs)
	assert.Equal(t, 1, buckets[0].UniqueUsers)
	assert.Equal(t, 2, buckets[0].UniqueSessions)
	assert.Equal(t, 1, buckets[1].RequestCount)
}

func TestTimeBuckets_EventBeforeWindowIsDropped(t *testing.T) {
	window := domain.TimeWindow{
		Start:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC),
		Granularity: domain.GranularityHour,
	}
	events := []domain.TelemetryInput{
		{Latency: domain.Latency{StartTime: window.Start.Add(-time.Minute)}},
	}
	buckets := timeBuckets(events, window)
	assert.Equal(t, 0, buckets[0].RequestCount)
}
