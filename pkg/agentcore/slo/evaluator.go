// Package slo implements the SLO evaluator: per-metric breach, near-breach,
// deviation, and severity derivation against a caller-supplied definition
// table, with an optional caller-supplied history used to weight
// confidence, classify consecutive breaches, and compute compliance
// percentage. Grounded on the teacher's
// masking rule-resolution shape (classify's sibling package), generalized
// from category matching to threshold arithmetic.
package slo

import (
	"math"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

const (
	minSampleSizeDefault = 30
	maxDataAgeMsDefault  = 300_000

	weightSampleSize = 0.30
	weightFreshness  = 0.30
	weightConsistency = 0.25
	weightCoverage    = 0.15

	minConfidenceDefault = 0.1
)

// Options tunes the confidence-weighting constants; zero values fall back
// to the spec's defaults.
type Options struct {
	MinSampleSize int
	MaxDataAgeMs  int64
	MinConfidence float64
	NowUnixMs     int64
}

func (o Options) withDefaults() Options {
	if o.MinSampleSize <= 0 {
		o.MinSampleSize = minSampleSizeDefault
	}
	if o.MaxDataAgeMs <= 0 {
		o.MaxDataAgeMs = maxDataAgeMsDefault
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = minConfidenceDefault
	}
	return o
}

// Evaluate runs every enabled definition against the matching metric
// samples, using history (keyed by slo_id) when present, and returns the
// full EnforcementResult.
func Evaluate(definitions []domain.SloDefinition, metrics []domain.MetricSample, history map[string]domain.HistoricalContext, opts Options) domain.EnforcementResult {
	opts = opts.withDefaults()

	var violations []domain.SloViolation
	var statuses []domain.SloStatusResult
	metricsEvaluated := 0
	confidenceSum := 0.0
	confidenceCount := 0

	for _, def := range definitions {
		if !def.Enabled {
			continue
		}
		hist := history[def.SloID]
		matching := matchingMetrics(def, metrics)
		metricsEvaluated += len(matching)

		if len(matching) == 0 {
			statuses = append(statuses, domain.SloStatusResult{SloID: def.SloID, Status: domain.SloStatusUnknown})
			continue
		}

		status := domain.SloStatusHealthy
		consecutiveCount := hist.PreviousBreaches

		for _, m := range matching {
			outcome := evaluateMetric(def, m, hist, opts)
			confidenceSum += outcome.confidence
			confidenceCount++

			if outcome.isBreach {
				consecutiveCount++
				status = domain.SloStatusBreached
				violations = append(violations, domain.SloViolation{
					SloID:                  def.SloID,
					MetricID:               m.MetricID,
					BreachType:             outcome.breachType,
					Severity:               outcome.severity,
					IsSLA:                  def.IsSLA,
					SLAPenaltyTier:         def.SLAPenaltyTier,
					Value:                  m.Value,
					Threshold:              def.Threshold,
					DeviationPercentage:    outcome.deviationPct,
					ConsecutiveBreachCount: consecutiveCount,
				})
			} else {
				consecutiveCount = 0
				if outcome.isNearBreach && status != domain.SloStatusBreached {
					status = domain.SloStatusWarning
					violations = append(violations, domain.SloViolation{
						SloID:                  def.SloID,
						MetricID:               m.MetricID,
						BreachType:             domain.BreachTypeNear,
						Severity:               outcome.severity,
						IsSLA:                  def.IsSLA,
						SLAPenaltyTier:         def.SLAPenaltyTier,
						Value:                  m.Value,
						Threshold:              def.Threshold,
						DeviationPercentage:    outcome.deviationPct,
						ConsecutiveBreachCount: 0,
					})
				}
			}
		}

		var compliance *float64
		if len(hist.PreviousValues) > 0 {
			c := compliancePercentage(def, hist)
			compliance = &c
		}
		statuses = append(statuses, domain.SloStatusResult{SloID: def.SloID, Status: status, CompliancePercentage: compliance})
	}

	overallConfidence := 0.0
	if confidenceCount > 0 {
		overallConfidence = confidenceSum / float64(confidenceCount)
	}

	return domain.EnforcementResult{
		Violations:       violations,
		SloStatuses:      statuses,
		MetricsEvaluated: metricsEvaluated,
		SlosEvaluated:    len(definitions),
		Confidence:       overallConfidence,
	}
}

func matchingMetrics(def domain.SloDefinition, metrics []domain.MetricSample) []domain.MetricSample {
	var out []domain.MetricSample
	for _, m := range metrics {
		if m.Indicator != def.Indicator || m.Window != def.Window {
			continue
		}
		if def.Provider != "" && m.Provider != def.Provider {
			continue
		}
		if def.Model != "" && m.Model != def.Model {
			continue
		}
		if def.Environment != "" && m.Environment != def.Environment {
			continue
		}
		out = append(out, m)
	}
	return out
}

type metricOutcome struct {
	isBreach     bool
	isNearBreach bool
	deviationPct float64
	breachType   domain.BreachType
	severity     domain.Severity
	confidence   float64
}

func evaluateMetric(def domain.SloDefinition, m domain.MetricSample, hist domain.HistoricalContext, opts Options) metricOutcome {
	isBreach := breachAgainst(def.Operator, m.Value, def.Threshold)

	warningPct := def.WarningThresholdPercentage
	if warningPct <= 0 {
		warningPct = domain.DefaultWarningThresholdPercentage
	}
	warningThreshold := warningThresholdFor(def.Operator, def.Threshold, warningPct)
	isNearBreach := !isBreach && breachAgainst(def.Operator, m.Value, warningThreshold)

	deviationPct := deviationPercentage(def.Threshold, m.Value)

	breachType := classifyBreachType(def, isBreach, isNearBreach, hist)
	severity := severityFor(breachType, hist, deviationPct)

	confidence := computeConfidence(m, hist, opts)

	return metricOutcome{
		isBreach:     isBreach,
		isNearBreach: isNearBreach,
		deviationPct: deviationPct,
		breachType:   breachType,
		severity:     severity,
		confidence:   confidence,
	}
}

// breachAgainst reports whether value breaches threshold under operator,
// per the spec's exact per-operator breach condition.
func breachAgainst(op domain.Operator, value, threshold float64) bool {
	switch op {
	case domain.OperatorLT:
		return value >= threshold
	case domain.OperatorLTE:
		return value > threshold
	case domain.OperatorGT:
		return value <= threshold
	case domain.OperatorGTE:
		return value < threshold
	case domain.OperatorEQ:
		return value != threshold
	case domain.OperatorNEQ:
		return value == threshold
	default:
		return false
	}
}

// warningThresholdFor computes the near-breach boundary: a fraction of
// threshold for upper-bound operators (lt/lte: breaching means "too high"),
// and threshold divided by that fraction for lower-bound operators (gt/gte:
// breaching means "too low").
func warningThresholdFor(op domain.Operator, threshold, warningPct float64) float64 {
	fraction := warningPct / 100.0
	switch op {
	case domain.OperatorLT, domain.OperatorLTE:
		return fraction * threshold
	case domain.OperatorGT, domain.OperatorGTE:
		if fraction == 0 {
			return threshold
		}
		return threshold / fraction
	default:
		return threshold
	}
}

func deviationPercentage(threshold, value float64) float64 {
	if threshold == 0 {
		if value > 0 {
			return 100
		}
		return 0
	}
	return (value - threshold) / threshold * 100
}

func classifyBreachType(def domain.SloDefinition, isBreach, isNearBreach bool, hist domain.HistoricalContext) domain.BreachType {
	switch {
	case isBreach && def.IsSLA:
		return domain.BreachTypeSLA
	case isBreach && hist.PreviousBreaches > 0:
		return domain.BreachTypeConsecutive
	case isNearBreach:
		return domain.BreachTypeNear
	default:
		return domain.BreachTypeSLO
	}
}

func severityFor(breachType domain.BreachType, hist domain.HistoricalContext, deviationPct float64) domain.Severity {
	switch breachType {
	case domain.BreachTypeSLA:
		return domain.SeverityCritical
	case domain.BreachTypeNear:
		return domain.SeverityLow
	case domain.BreachTypeConsecutive:
		if hist.PreviousBreaches >= 3 {
			return domain.SeverityCritical
		}
		return domain.SeverityHigh
	default:
		abs := math.Abs(deviationPct)
		switch {
		case abs > 50:
			return domain.SeverityCritical
		case abs > 25:
			return domain.SeverityHigh
		case abs > 10:
			return domain.SeverityMedium
		default:
			return domain.SeverityLow
		}
	}
}

func computeConfidence(m domain.MetricSample, hist domain.HistoricalContext, opts Options) float64 {
	sampleCount := 1
	if m.SampleCount != nil {
		sampleCount = *m.SampleCount
	}
	sampleSizeFactor := math.Min(1, float64(sampleCount)/float64(opts.MinSampleSize))

	var ageMs int64
	if opts.NowUnixMs > 0 {
		ageMs = opts.NowUnixMs - m.Timestamp.UnixMilli()
	}
	freshnessFactor := math.Max(0, 1-float64(ageMs)/float64(opts.MaxDataAgeMs))

	var consistencyFactor float64
	switch hist.Trend {
	case domain.TrendStable:
		consistencyFactor = 1.0
	case domain.TrendImproving, domain.TrendDegrading:
		consistencyFactor = 0.8
	case domain.TrendVolatile:
		consistencyFactor = 0.5
	default:
		consistencyFactor = 0.8
	}

	coverageFactor := 0.5
	if sampleCount > 0 {
		coverageFactor = 1.0
	}

	raw := weightSampleSize*sampleSizeFactor +
		weightFreshness*freshnessFactor +
		weightConsistency*consistencyFactor +
		weightCoverage*coverageFactor

	if raw < opts.MinConfidence {
		return opts.MinConfidence
	}
	if raw > 1 {
		return 1
	}
	return raw
}

func compliancePercentage(def domain.SloDefinition, hist domain.HistoricalContext) float64 {
	if len(hist.PreviousValues) == 0 {
		return 100
	}
	compliant := 0
	for _, v := range hist.PreviousValues {
		if !breachAgainst(def.Operator, v, def.Threshold) {
			compliant++
		}
	}
	return float64(compliant) / float64(len(hist.PreviousValues)) * 100
}
