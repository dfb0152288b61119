package classify

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// LoadRules reads a JSON-encoded rule table from path, the config-driven
// pattern the teacher uses for its built-in masking patterns (YAML config,
// compiled once at startup). An agent with no operator-supplied rule file
// falls back to DefaultRules.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}
	var rules []Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}
	return rules, nil
}

// DefaultRules is the built-in rule table a failure-classification agent
// runs with when no operator-supplied rule file is configured. Priority is
// descending significance; the first fully-matching rule wins.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID: "auth_failure_401", Priority: 100, ConfidenceBase: 0.95,
			Conditions: []Condition{{Field: "error.http_status", Operator: domain.CondEquals, Value: 401}},
			Output:     RuleOutput{Category: domain.CategoryAuthFailure, Severity: domain.SeverityHigh, Cause: domain.CausePolicy},
		},
		{
			ID: "auth_failure_403", Priority: 99, ConfidenceBase: 0.9,
			Conditions: []Condition{{Field: "error.http_status", Operator: domain.CondEquals, Value: 403}},
			Output:     RuleOutput{Category: domain.CategoryAuthFailure, Severity: domain.SeverityHigh, Cause: domain.CausePolicy},
		},
		{
			ID: "provider_rate_limit", Priority: 90, ConfidenceBase: 0.95,
			Conditions: []Condition{{Field: "error.http_status", Operator: domain.CondEquals, Value: 429}},
			Output:     RuleOutput{Category: domain.CategoryProviderRateLimit, Severity: domain.SeverityMedium, Cause: domain.CauseUpstream},
		},
		{
			ID: "quota_exceeded", Priority: 85, ConfidenceBase: 0.85,
			Conditions: []Condition{{Field: "error.message", Operator: domain.CondContains, Value: "quota"}},
			Output:     RuleOutput{Category: domain.CategoryQuotaExceeded, Severity: domain.SeverityMedium, Cause: domain.CausePolicy},
		},
		{
			ID: "provider_outage_5xx", Priority: 80, ConfidenceBase: 0.8,
			Conditions: []Condition{{Field: "error.http_status", Operator: domain.CondGTE, Value: 500}},
			Output:     RuleOutput{Category: domain.CategoryProviderOutage, Severity: domain.SeverityCritical, Cause: domain.CauseUpstream},
		},
		{
			ID: "timeout_by_code", Priority: 75, ConfidenceBase: 0.9,
			Conditions: []Condition{{Field: "error.code", Operator: domain.CondEquals, Value: "timeout"}},
			Output:     RuleOutput{Category: domain.CategoryTimeout, Severity: domain.SeverityHigh, Cause: domain.CauseUpstream},
		},
		{
			ID: "timeout_by_message", Priority: 74, ConfidenceBase: 0.7,
			Conditions: []Condition{{Field: "error.message", Operator: domain.CondMatches, Value: "timed? ?out"}},
			Output:     RuleOutput{Category: domain.CategoryTimeout, Severity: domain.SeverityHigh, Cause: domain.CauseUpstream},
		},
		{
			ID: "content_filter", Priority: 70, ConfidenceBase: 0.85,
			Conditions: []Condition{{Field: "error.message", Operator: domain.CondContains, Value: "content policy"}},
			Output:     RuleOutput{Category: domain.CategoryContentFilter, Severity: domain.SeverityLow, Cause: domain.CausePolicy},
		},
		{
			ID: "context_length_limit", Priority: 65, ConfidenceBase: 0.9,
			Conditions: []Condition{{Field: "error.message", Operator: domain.CondContains, Value: "context length"}},
			Output:     RuleOutput{Category: domain.CategoryContextLengthLimit, Severity: domain.SeverityMedium, Cause: domain.CauseClient},
		},
		{
			ID: "invalid_request_400", Priority: 60, ConfidenceBase: 0.75,
			Conditions: []Condition{{Field: "error.http_status", Operator: domain.CondEquals, Value: 400}},
			Output:     RuleOutput{Category: domain.CategoryInvalidRequest, Severity: domain.SeverityLow, Cause: domain.CauseClient},
		},
	}
}
