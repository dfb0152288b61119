// Package classify implements the failure classification engine: a
// priority-sorted, first-match-wins rule table over dotted-path telemetry
// fields. Grounded on the teacher's masking.CompiledPattern /
// resolvedPatterns shape — named rules holding pre-compiled regexes,
// resolved once at construction rather than per-request.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// ConditionOperator and category/severity/cause types live in domain; this
// package only adds the rule table and evaluator.

// Condition is one clause of a rule: field is a dotted path into the input
// (e.g. "error.code"), evaluated with operator against value.
type Condition struct {
	Field    string                 `json:"field"`
	Operator domain.ConditionOperator `json:"operator"`
	Value    any                    `json:"value"`
}

// Rule is one row of the classification table.
type Rule struct {
	ID             string              `json:"id"`
	Priority       int                 `json:"priority"`
	ConfidenceBase float64             `json:"confidence_base"`
	Conditions     []Condition         `json:"conditions"`
	Output         RuleOutput          `json:"output"`

	compiledMatches []*regexp.Regexp
}

// RuleOutput is the classification a matching rule produces.
type RuleOutput struct {
	Category domain.FailureCategory `json:"category"`
	Severity domain.Severity        `json:"severity"`
	Cause    domain.Cause           `json:"cause"`
}

// Engine holds a priority-sorted, immutable rule table plus the fixed
// recommendation-text lookup, compiled once at construction.
type Engine struct {
	rules           []Rule
	recommendations map[domain.Cause]map[domain.FailureCategory]string
}

// New compiles rules (sorting by priority descending, ties broken by
// original insertion order — a stable sort) and returns a ready Engine.
// Any `matches` condition with an invalid regex is a construction-time
// error, since the engine is stateless and built once per process.
func New(rules []Rule) (*Engine, error) {
	compiled := make([]Rule, len(rules))
	copy(compiled, rules)

	for i := range compiled {
		for _, c := range compiled[i].Conditions {
			if c.Operator != domain.CondMatches {
				continue
			}
			pattern, ok := c.Value.(string)
			if !ok {
				return nil, fmt.Errorf("rule %s: matches condition value must be a string pattern", compiled[i].ID)
			}
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %s: invalid regex %q: %w", compiled[i].ID, pattern, err)
			}
			compiled[i].compiledMatches = append(compiled[i].compiledMatches, re)
		}
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &Engine{rules: compiled, recommendations: defaultRecommendations()}, nil
}

// Classify evaluates the rule table against input in priority order,
// returning the first fully-matching rule's classification. No rule
// matching yields the fixed (unknown, informational, unknown, 0) result
// with a single no_match signal.
func (e *Engine) Classify(input map[string]any) domain.FailureClassification {
	for _, rule := range e.rules {
		signals, matched, total := evaluateRule(rule, input)
		if matched != total || total == 0 {
			continue
		}
		confidence := rule.ConfidenceBase * (float64(matched) / float64(total))
		return domain.FailureClassification{
			Category:       rule.Output.Category,
			Severity:       rule.Output.Severity,
			Cause:          rule.Output.Cause,
			Confidence:     confidence,
			Signals:        signals,
			MatchedRuleIDs: []string{rule.ID},
			Recommendation: e.recommend(rule.Output.Cause, rule.Output.Category),
		}
	}

	return domain.FailureClassification{
		Category: domain.CategoryUnknown,
		Severity: domain.SeverityInformational,
		Cause:    domain.CauseUnknown,
		Confidence: 0,
		Signals: []domain.Signal{{
			SignalType:  "no_match_signal",
			SignalValue: "",
			Weight:      0,
		}},
		MatchedRuleIDs: []string{},
		Recommendation: e.recommend(domain.CauseUnknown, domain.CategoryUnknown),
	}
}

// evaluateRule checks every condition of rule against input, returning the
// per-satisfied-condition signals, the count matched, and the total
// condition count. A rule matches iff matched == total (and total > 0).
func evaluateRule(rule Rule, input map[string]any) ([]domain.Signal, int, int) {
	total := len(rule.Conditions)
	if total == 0 {
		return nil, 0, 0
	}

	weight := 1.0 / float64(total)
	signals := make([]domain.Signal, 0, total)
	matched := 0

	matchIdx := 0
	for _, cond := range rule.Conditions {
		value, ok := extractField(input, cond.Field)
		if !ok {
			continue
		}

		var ok2 bool
		if cond.Operator == domain.CondMatches {
			var re *regexp.Regexp
			if matchIdx < len(rule.compiledMatches) {
				re = rule.compiledMatches[matchIdx]
			}
			matchIdx++
			ok2 = re != nil && re.MatchString(fmt.Sprintf("%v", value))
		} else {
			ok2 = evaluateCondition(cond.Operator, value, cond.Value)
		}

		if !ok2 {
			continue
		}
		matched++
		signals = append(signals, domain.Signal{
			SignalType:  fmt.Sprintf("rule:%s:%s", rule.ID, cond.Field),
			SignalValue: fmt.Sprintf("%v", value),
			Weight:      weight,
		})
	}

	return signals, matched, total
}

// extractField walks input by dotted path; an undefined hop at any level
// makes the condition false (ok=false), never a panic or error.
func extractField(input map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")
	var cur any = input

	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func evaluateCondition(op domain.ConditionOperator, observed, expected any) bool {
	switch op {
	case domain.CondEquals:
		return fmt.Sprintf("%v", observed) == fmt.Sprintf("%v", expected)
	case domain.CondContains:
		return strings.Contains(strings.ToLower(fmt.Sprintf("%v", observed)), strings.ToLower(fmt.Sprintf("%v", expected)))
	case domain.CondIn:
		list, ok := expected.([]any)
		if !ok {
			return false
		}
		observedStr := fmt.Sprintf("%v", observed)
		for _, item := range list {
			if fmt.Sprintf("%v", item) == observedStr {
				return true
			}
		}
		return false
	case domain.CondGT, domain.CondLT, domain.CondGTE, domain.CondLTE:
		ov, ok1 := toFloat(observed)
		ev, ok2 := toFloat(expected)
		if !ok1 || !ok2 {
			return false
		}
		switch op {
		case domain.CondGT:
			return ov > ev
		case domain.CondLT:
			return ov < ev
		case domain.CondGTE:
			return ov >= ev
		case domain.CondLTE:
			return ov <= ev
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (e *Engine) recommend(cause domain.Cause, category domain.FailureCategory) string {
	byCategory, ok := e.recommendations[cause]
	if !ok {
		return ""
	}
	return byCategory[category]
}

// defaultRecommendations is the fixed, purely documentary advisory-text
// table keyed by cause then category.
func defaultRecommendations() map[domain.Cause]map[domain.FailureCategory]string {
	return map[domain.Cause]map[domain.FailureCategory]string{
		domain.CauseUpstream: {
			domain.CategoryProviderRateLimit: "Observed provider rate limiting; consider spacing requests or raising the provider-side quota.",
			domain.CategoryProviderOutage:    "Observed provider outage signal; downstream consumers may want to fail over to an alternate provider.",
			domain.CategoryTimeout:           "Observed upstream timeout; review provider latency trends for sustained degradation.",
		},
		domain.CausePolicy: {
			domain.CategoryAuthFailure:        "Observed authentication failure; verify credential rotation and scope configuration.",
			domain.CategoryContentFilter:      "Observed content-filter rejection; review the filtering policy against expected traffic.",
			domain.CategoryQuotaExceeded:      "Observed quota exhaustion; review allocated quota against sustained usage.",
		},
		domain.CauseClient: {
			domain.CategoryInvalidRequest:     "Observed malformed request; review caller-side request construction.",
			domain.CategoryContextLengthLimit: "Observed context-length overflow; review caller-side prompt/context sizing.",
		},
		domain.CauseUnknown: {
			domain.CategoryUnknown: "No classification rule matched; manual review recommended.",
		},
	}
}
