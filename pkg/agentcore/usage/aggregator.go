package usage

import (
	"math"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// Analyze runs the full usage-pattern aggregation over events: filtering,
// time-bucketing, summary, distributions, provider usage, opt-in trends and
// seasonality, hotspots, growth patterns, and overall confidence.
func Analyze(events []domain.TelemetryInput, window domain.TimeWindow, filters domain.UsageFilters, options domain.UsageOptions) domain.UsagePatternAnalysis {
	filtered := applyFilters(events, filters)
	buckets := timeBuckets(filtered, window)

	result := domain.UsagePatternAnalysis{
		Summary:        computeSummary(filtered),
		TimeSeries:     buckets,
		Distributions:  computeDistributions(filtered, options.PercentileSet),
		ProviderUsage:  computeProviderUsage(filtered),
		Hotspots:       computeHotspots(filtered),
		GrowthPatterns: computeGrowthPatterns(buckets),
		SampleSize:     len(filtered),
	}

	if options.IncludeTrends {
		result.Trends = computeTrends(buckets)
	}
	if options.IncludeSeasonality {
		result.Seasonality = computeSeasonality(buckets)
	}

	result.OverallConfidence = 1 - math.Exp(-0.001*float64(len(filtered)))

	return result
}

func computeSummary(events []domain.TelemetryInput) domain.UsageSummary {
	users := make(map[string]struct{})
	sessions := make(map[string]struct{})
	providers := make(map[domain.Provider]struct{})
	models := make(map[string]struct{})

	var totalTokens int64
	var totalCost float64
	var totalErrors int

	for _, e := range events {
		if e.Metadata.UserID != "" {
			users[e.Metadata.UserID] = struct{}{}
		}
		if e.Metadata.SessionID != "" {
			sessions[e.Metadata.SessionID] = struct{}{}
		}
		providers[e.Provider] = struct{}{}
		models[e.Model] = struct{}{}
		if e.TokenUsage != nil {
			totalTokens += int64(e.TokenUsage.Total)
		}
		if e.Cost != nil {
			totalCost += e.Cost.AmountUSD
		}
		if e.Status == domain.StatusError {
			totalErrors++
		}
	}

	total := len(events)
	var errorRate, avgRequestsPerUser float64
	if total > 0 {
		errorRate = float64(totalErrors) / float64(total)
	}
	if len(users) > 0 {
		avgRequestsPerUser = float64(total) / float64(len(users))
	}

	return domain.UsageSummary{
		UniqueUsers:        len(users),
		UniqueSessions:     len(sessions),
		UniqueProviders:    len(providers),
		UniqueModels:       len(models),
		TotalRequests:      total,
		TotalTokens:        totalTokens,
		TotalCostUSD:       totalCost,
		TotalErrors:        totalErrors,
		ErrorRate:          errorRate,
		AvgRequestsPerUser: avgRequestsPerUser,
	}
}

func computeDistributions(events []domain.TelemetryInput, percentileSet []int) domain.Distributions {
	latencies := make([]float64, 0, len(events))
	tokens := make([]float64, 0, len(events))
	costs := make([]float64, 0, len(events))

	for _, e := range events {
		latencies = append(latencies, float64(e.Latency.TotalMs))
		if e.TokenUsage != nil {
			tokens = append(tokens, float64(e.TokenUsage.Total))
		} else {
			tokens = append(tokens, 0)
		}
		if e.Cost != nil {
			costs = append(costs, e.Cost.AmountUSD)
		} else {
			costs = append(costs, 0)
		}
	}

	return domain.Distributions{
		Latency: computeDistribution(latencies, percentileSet),
		Tokens:  computeDistribution(tokens, percentileSet),
		Cost:    computeDistribution(costs, percentileSet),
	}
}
