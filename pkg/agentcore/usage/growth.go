package usage

import (
	"math"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// computeGrowthPatterns splits each tracked metric's bucket series in half
// and derives period-over-period and compound growth, per spec.md §4.6 step
// 8. Returns nil for fewer than 2 buckets (no split is possible).
func computeGrowthPatterns(buckets []domain.TimeBucket) []domain.GrowthPattern {
	if len(buckets) < 2 {
		return nil
	}

	patterns := make([]domain.GrowthPattern, 0, len(trendMetrics))
	for _, tm := range trendMetrics {
		values := make([]float64, len(buckets))
		for i, b := range buckets {
			values[i] = tm.extract(b)
		}
		patterns = append(patterns, fitGrowth(tm.name, values))
	}
	return patterns
}

func fitGrowth(metric string, values []float64) domain.GrowthPattern {
	mid := len(values) / 2
	h1 := sumOf(values[:mid])
	h2 := sumOf(values[mid:])

	var periodOverPeriod float64
	if h1 != 0 {
		periodOverPeriod = (h2 - h1) / h1 * 100
	} else if h2 > 0 {
		periodOverPeriod = 100
	}

	first := values[0]
	last := values[len(values)-1]
	n := len(values) - 1
	var compound float64
	if first > 0 && n > 0 {
		compound = (math.Pow(last/first, 1/float64(n)) - 1) * 100
	}

	cv := coefficientOfVariation(values)
	confidence := math.Max(0, 1-cv)

	return domain.GrowthPattern{
		Metric:            metric,
		PeriodOverPercent: periodOverPeriod,
		CompoundPercent:   compound,
		Classification:    classifyGrowth(periodOverPeriod),
		Confidence:        confidence,
	}
}

func classifyGrowth(periodOverPeriod float64) domain.GrowthClassification {
	switch {
	case periodOverPeriod > 20:
		return domain.GrowthRapid
	case periodOverPeriod > 5:
		return domain.GrowthModerate
	case periodOverPeriod >= -5:
		return domain.GrowthStable
	case periodOverPeriod >= -20:
		return domain.GrowthDecline
	default:
		return domain.GrowthRapidDown
	}
}

func sumOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}
