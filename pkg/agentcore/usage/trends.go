package usage

import (
	"math"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

const minSampleSizeForTrends = 30

// trendMetric names one of the five series the spec requires trend fitting
// over, paired with its extractor from a TimeBucket.
type trendMetric struct {
	name    string
	extract func(domain.TimeBucket) float64
}

var trendMetrics = []trendMetric{
	{"request_count", func(b domain.TimeBucket) float64 { return float64(b.RequestCount) }},
	{"total_tokens", func(b domain.TimeBucket) float64 { return float64(b.TotalTokens) }},
	{"total_cost_usd", func(b domain.TimeBucket) float64 { return b.TotalCostUSD }},
	{"avg_latency_ms", func(b domain.TimeBucket) float64 { return b.AvgLatencyMs }},
	{"error_count", func(b domain.TimeBucket) float64 { return float64(b.ErrorCount) }},
}

// computeTrends fits an OLS regression of bucket index against each tracked
// metric. Returns nil if the series is shorter than minSampleSizeForTrends,
// matching the spec's opt-in sample-size floor.
func computeTrends(buckets []domain.TimeBucket) []domain.MetricTrend {
	if len(buckets) < minSampleSizeForTrends {
		return nil
	}

	trends := make([]domain.MetricTrend, 0, len(trendMetrics))
	for _, tm := range trendMetrics {
		values := make([]float64, len(buckets))
		for i, b := range buckets {
			values[i] = tm.extract(b)
		}
		trends = append(trends, fitTrend(tm.name, values))
	}
	return trends
}

func fitTrend(metric string, values []float64) domain.MetricTrend {
	n := float64(len(values))

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	mean := sumY / n

	denom := n*sumXX - sumX*sumX
	var slope, intercept float64
	if denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
		intercept = (sumY - slope*sumX) / n
	} else {
		intercept = mean
	}

	var ssTot, ssRes float64
	for i, y := range values {
		x := float64(i)
		predicted := slope*x + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - mean) * (y - mean)
	}
	rSquared := 0.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
		if rSquared < 0 {
			rSquared = 0
		}
	}

	cv := coefficientOfVariation(values)

	var direction domain.TrendDirection
	switch {
	case cv > 0.5:
		direction = domain.TrendDirectionVolatile
	case mean != 0 && math.Abs(slope) < 0.01*math.Abs(mean):
		direction = domain.TrendDirectionStable
	case slope > 0:
		direction = domain.TrendDirectionIncreasing
	default:
		direction = domain.TrendDirectionDecreasing
	}

	return domain.MetricTrend{
		Metric:     metric,
		Slope:      slope,
		Intercept:  intercept,
		RSquared:   rSquared,
		Direction:  direction,
		Confidence: rSquared,
	}
}

// coefficientOfVariation is stddev/mean, 0 when the mean is 0.
func coefficientOfVariation(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= n
	return math.Sqrt(variance) / math.Abs(mean)
}
