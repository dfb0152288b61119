package usage

import (
	"math"
	"sort"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

type seasonalityRule struct {
	patternType string
	groupsTotal int
	minGroups   int
	cvThreshold float64
	epsilon     float64
	strengthK   float64
	groupOf     func(b domain.TimeBucket) int
}

var seasonalityRules = []seasonalityRule{
	{
		patternType: "hour_of_day",
		groupsTotal: 24,
		minGroups:   12,
		cvThreshold: 0.2,
		epsilon:     0.2,
		strengthK:   1,
		groupOf:     func(b domain.TimeBucket) int { return b.BucketStart.UTC().Hour() },
	},
	{
		patternType: "day_of_week",
		groupsTotal: 7,
		minGroups:   5,
		cvThreshold: 0.15,
		epsilon:     0.1,
		strengthK:   2,
		groupOf:     func(b domain.TimeBucket) int { return int(b.BucketStart.UTC().Weekday()) },
	},
	{
		patternType: "week_of_year",
		groupsTotal: 52,
		minGroups:   4,
		cvThreshold: 0.1,
		epsilon:     0.0,
		strengthK:   3,
		groupOf: func(b domain.TimeBucket) int {
			_, week := b.BucketStart.UTC().ISOWeek()
			return week
		},
	},
}

// computeSeasonality evaluates each seasonality rule against the
// request_count series, emitting a pattern only once its groups-present
// count reaches the rule's minimum distinct-group floor.
func computeSeasonality(buckets []domain.TimeBucket) []domain.SeasonalityPattern {
	var patterns []domain.SeasonalityPattern
	for _, rule := range seasonalityRules {
		groupSums := make(map[int]float64)
		groupCounts := make(map[int]int)
		for _, b := range buckets {
			g := rule.groupOf(b)
			groupSums[g] += float64(b.RequestCount)
			groupCounts[g]++
		}
		if len(groupSums) < rule.minGroups {
			continue
		}

		groupMeans := make(map[int]float64, len(groupSums))
		var values []float64
		for g, sum := range groupSums {
			mean := sum / float64(groupCounts[g])
			groupMeans[g] = mean
			values = append(values, mean)
		}

		overallMean := meanOf(values)
		cv := coefficientOfVariation(values)
		detected := cv > rule.cvThreshold

		var peaks, troughs []int
		for g, mean := range groupMeans {
			if overallMean != 0 && mean > overallMean*(1+rule.epsilon) {
				peaks = append(peaks, g)
			}
			if overallMean != 0 && mean < overallMean*(1-rule.epsilon) {
				troughs = append(troughs, g)
			}
		}
		sort.Ints(peaks)
		sort.Ints(troughs)

		strength := math.Min(1, cv*rule.strengthK)
		confidence := float64(len(groupSums)) / float64(rule.groupsTotal)
		if confidence > 1 {
			confidence = 1
		}

		patterns = append(patterns, domain.SeasonalityPattern{
			PatternType:   rule.patternType,
			Detected:      detected,
			Strength:      strength,
			PeakPeriods:   peaks,
			TroughPeriods: troughs,
			Confidence:    confidence,
		})
	}
	return patterns
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
