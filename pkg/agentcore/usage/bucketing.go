package usage

import (
	"math"
	"time"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// granularityDuration maps a Granularity to its fixed bucket width. Month is
// approximated as 30 days — the spec does not require calendar-month
// alignment, only a fixed-width bucket.
func granularityDuration(g domain.Granularity) time.Duration {
	switch g {
	case domain.GranularityMinute:
		return time.Minute
	case domain.GranularityHour:
		return time.Hour
	case domain.GranularityDay:
		return 24 * time.Hour
	case domain.GranularityWeek:
		return 7 * 24 * time.Hour
	case domain.GranularityMonth:
		return 30 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// bucketCount computes ceil((end-start)/granularity), at least 1.
func bucketCount(window domain.TimeWindow) int {
	width := granularityDuration(window.Granularity)
	total := window.End.Sub(window.Start)
	if total <= 0 {
		return 1
	}
	n := int(math.Ceil(float64(total) / float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}

// timeBuckets builds the fixed-width bucket series and assigns every event
// to its containing bucket by start_time. Buckets with no events still
// appear, per the spec.
func timeBuckets(events []domain.TelemetryInput, window domain.TimeWindow) []domain.TimeBucket {
	width := granularityDuration(window.Granularity)
	n := bucketCount(window)

	buckets := make([]domain.TimeBucket, n)
	for i := 0; i < n; i++ {
		start := window.Start.Add(time.Duration(i) * width)
		end := start.Add(width)
		buckets[i] = domain.TimeBucket{BucketStart: start, BucketEnd: end}
	}

	latencySums := make([]float64, n)
	userSets := make([]map[string]struct{}, n)
	sessionSets := make([]map[string]struct{}, n)

	for _, e := range events {
		idx := bucketIndex(e.Latency.StartTime, window, width, n)
		if idx < 0 {
			continue
		}
		b := &buckets[idx]
		b.RequestCount++
		if e.TokenUsage != nil {
			b.TotalTokens += int64(e.TokenUsage.Total)
		}
		if e.Cost != nil {
			b.TotalCostUSD += e.Cost.AmountUSD
		}
		latencySums[idx] += float64(e.Latency.TotalMs)
		if e.Status == domain.StatusError {
			b.ErrorCount++
		}
		if e.Metadata.UserID != "" {
			if userSets[idx] == nil {
				userSets[idx] = make(map[string]struct{})
			}
			userSets[idx][e.Metadata.UserID] = struct{}{}
		}
		if e.Metadata.SessionID != "" {
			if sessionSets[idx] == nil {
				sessionSets[idx] = make(map[string]struct{})
			}
			sessionSets[idx][e.Metadata.SessionID] = struct{}{}
		}
	}

	for i := range buckets {
		if buckets[i].RequestCount > 0 {
			buckets[i].AvgLatencyMs = latencySums[i] / float64(buckets[i].RequestCount)
		}
		buckets[i].UniqueUsers = len(userSets[i])
		buckets[i].UniqueSessions = len(sessionSets[i])
	}

	return buckets
}

func bucketIndex(t time.Time, window domain.TimeWindow, width time.Duration, n int) int {
	if t.Before(window.Start) {
		return -1
	}
	offset := t.Sub(window.Start)
	idx := int(offset / width)
	if idx >= n {
		return -1
	}
	return idx
}
