package domain

import "time"

// Signal is one piece of evidence a classification rule observed.
type Signal struct {
	SignalType  string  `json:"signal_type"`
	SignalValue string  `json:"signal_value"`
	Weight      float64 `json:"weight"`
}

// FailureClassification is the AnalysisOutput produced by the failure
// classification engine.
type FailureClassification struct {
	SpanID            string          `json:"span_id"`
	Category          FailureCategory `json:"category"`
	Severity          Severity        `json:"severity"`
	Cause             Cause           `json:"cause"`
	Confidence        float64         `json:"confidence"`
	Signals           []Signal        `json:"signals"`
	MatchedRuleIDs    []string        `json:"matched_rule_ids"`
	Recommendation    string          `json:"recommendation,omitempty"`
	ClassifiedAt      time.Time       `json:"classified_at"`
	ClassificationLatencyMs int64     `json:"classification_latency_ms"`
}

// SloViolation is one breach or near-breach recorded by the SLO evaluator.
type SloViolation struct {
	SloID                  string     `json:"slo_id"`
	MetricID               string     `json:"metric_id"`
	BreachType             BreachType `json:"breach_type"`
	Severity               Severity   `json:"severity"`
	IsSLA                  bool       `json:"is_sla"`
	SLAPenaltyTier         *int       `json:"sla_penalty_tier,omitempty"`
	Value                  float64    `json:"value"`
	Threshold              float64    `json:"threshold"`
	DeviationPercentage    float64    `json:"deviation_percentage"`
	ConsecutiveBreachCount int        `json:"consecutive_breach_count"`
}

// SloStatusResult is the per-SLO evaluation summary, independent of whether
// any violation was recorded.
type SloStatusResult struct {
	SloID               string    `json:"slo_id"`
	Status              SloStatus `json:"status"`
	CompliancePercentage *float64 `json:"compliance_percentage,omitempty"`
}

// EnforcementResult is the AnalysisOutput produced by the SLO evaluator.
type EnforcementResult struct {
	Violations        []SloViolation    `json:"violations"`
	SloStatuses       []SloStatusResult `json:"slo_statuses"`
	MetricsEvaluated  int               `json:"metrics_evaluated"`
	SlosEvaluated     int               `json:"slos_evaluated"`
	ProcessingTimeMs  int64             `json:"processing_time_ms"`
	Confidence        float64           `json:"confidence"`
}

// TimeBucket is one fixed-width window of the usage aggregator's
// time-bucketed series.
type TimeBucket struct {
	BucketStart    time.Time `json:"bucket_start"`
	BucketEnd      time.Time `json:"bucket_end"`
	RequestCount   int       `json:"request_count"`
	TotalTokens    int64     `json:"total_tokens"`
	TotalCostUSD   float64   `json:"total_cost_usd"`
	AvgLatencyMs   float64   `json:"avg_latency_ms"`
	ErrorCount     int       `json:"error_count"`
	UniqueUsers    int       `json:"unique_users"`
	UniqueSessions int       `json:"unique_sessions"`
}

// UsageSummary is the scalar roll-up of a usage aggregation run.
type UsageSummary struct {
	UniqueUsers       int     `json:"unique_users"`
	UniqueSessions    int     `json:"unique_sessions"`
	UniqueProviders   int     `json:"unique_providers"`
	UniqueModels      int     `json:"unique_models"`
	TotalRequests     int     `json:"total_requests"`
	TotalTokens       int64   `json:"total_tokens"`
	TotalCostUSD      float64 `json:"total_cost_usd"`
	TotalErrors       int     `json:"total_errors"`
	ErrorRate         float64 `json:"error_rate"`
	AvgRequestsPerUser float64 `json:"avg_requests_per_user"`
}

// Percentiles holds a named subset of percentile values (p50/p90/p95/p99 by
// default, any subset up to 100 values).
type Percentiles map[string]float64

// Distribution is the statistical summary of one numeric series (latency,
// tokens, or cost).
type Distribution struct {
	Count       int         `json:"count"`
	Sum         float64     `json:"sum"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	Mean        float64     `json:"mean"`
	Median      float64     `json:"median"`
	StdDev      float64     `json:"std_dev"`
	Variance    float64     `json:"variance"`
	Percentiles Percentiles `json:"percentiles"`
}

// Distributions groups the three distributions the usage aggregator
// computes. Any of these may be nil when the underlying series is all zero.
type Distributions struct {
	Latency *Distribution `json:"latency,omitempty"`
	Tokens  *Distribution `json:"tokens,omitempty"`
	Cost    *Distribution `json:"cost,omitempty"`
}

// ModelUsage is per-model usage nested under a ProviderUsage entry.
type ModelUsage struct {
	Model             string  `json:"model"`
	RequestCount      int     `json:"request_count"`
	TotalTokens       int64   `json:"total_tokens"`
	TotalCostUSD      float64 `json:"total_cost_usd"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

// ProviderUsage is per-provider usage with a nested per-model breakdown.
type ProviderUsage struct {
	Provider          string       `json:"provider"`
	RequestCount      int          `json:"request_count"`
	TotalTokens       int64        `json:"total_tokens"`
	TotalCostUSD      float64      `json:"total_cost_usd"`
	PercentageOfTotal float64      `json:"percentage_of_total"`
	Models            []ModelUsage `json:"models"`
}

// MetricTrend is the OLS-based trend for one metric across the time series.
type MetricTrend struct {
	Metric     string         `json:"metric"`
	Slope      float64        `json:"slope"`
	Intercept  float64        `json:"intercept"`
	RSquared   float64        `json:"r_squared"`
	Direction  TrendDirection `json:"direction"`
	Confidence float64        `json:"confidence"`
}

// SeasonalityPattern is one detected (or undetected) seasonal pattern for a
// given grouping (hour-of-day, day-of-week, ISO-week-of-year).
type SeasonalityPattern struct {
	PatternType  string   `json:"pattern_type"`
	Detected     bool     `json:"detected"`
	Strength     float64  `json:"strength"`
	PeakPeriods  []int    `json:"peak_periods"`
	TroughPeriods []int   `json:"trough_periods"`
	Confidence   float64  `json:"confidence"`
}

// Hotspot is one high-intensity dimension value discovered by the usage
// aggregator.
type Hotspot struct {
	Dimension         HotspotDimension `json:"dimension"`
	Value             string           `json:"value"`
	Intensity         float64          `json:"intensity"`
	RequestCount      int              `json:"request_count"`
	PercentageOfTotal float64          `json:"percentage_of_total"`
}

// GrowthPattern is the period-over-period and compound growth analysis for
// one metric.
type GrowthPattern struct {
	Metric              string               `json:"metric"`
	PeriodOverPercent   float64              `json:"period_over_period"`
	CompoundPercent     float64              `json:"compound"`
	Classification      GrowthClassification `json:"growth_classification"`
	Confidence          float64              `json:"confidence"`
}

// UsagePatternAnalysis is the AnalysisOutput produced by the usage
// aggregator.
type UsagePatternAnalysis struct {
	Summary           UsageSummary          `json:"summary"`
	TimeSeries        []TimeBucket          `json:"time_series"`
	Distributions     Distributions         `json:"distributions"`
	ProviderUsage     []ProviderUsage       `json:"provider_usage"`
	Trends            []MetricTrend         `json:"trends,omitempty"`
	Seasonality       []SeasonalityPattern  `json:"seasonality,omitempty"`
	Hotspots          []Hotspot             `json:"hotspots"`
	GrowthPatterns    []GrowthPattern       `json:"growth_patterns"`
	OverallConfidence float64               `json:"overall_confidence"`
	SampleSize        int                   `json:"sample_size"`
}

// PostMortemReport is the AnalysisOutput produced by the post-mortem
// synthesis agent. Its narrative prose is generated by an external
// templating collaborator; this repository only carries the structural
// shape and the evidence it is built from.
type PostMortemReport struct {
	IncidentSpanIDs []string `json:"incident_span_ids"`
	Summary         string   `json:"summary"`
	RootCause       string   `json:"root_cause"`
	ContributingFactors []string `json:"contributing_factors,omitempty"`
	Timeline        []PostMortemTimelineEntry `json:"timeline"`
	Recommendation  string   `json:"recommendation,omitempty"`
}

// PostMortemTimelineEntry is one entry in a PostMortemReport's timeline.
type PostMortemTimelineEntry struct {
	Timestamp time.Time `json:"timestamp"`
	SpanID    string    `json:"span_id"`
	Detail    string    `json:"detail"`
}

// VisualizationSpec is the AnalysisOutput produced by the visualization
// agent: a validated, provenance-eligible description of a chart. The
// concrete rendering DTO is produced by an external code-generator
// collaborator; this repository only validates the request and records what
// was requested.
type VisualizationSpec struct {
	ChartType string         `json:"chart_type"`
	Title     string         `json:"title"`
	XField    string         `json:"x_field"`
	YFields   []string       `json:"y_fields"`
	Filters   map[string]any `json:"filters,omitempty"`
	SourceRefs []string      `json:"source_refs"`
}
