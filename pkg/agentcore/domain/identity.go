// Package domain holds the wire types shared by every observation agent:
// telemetry inputs, analysis outputs, and the DecisionEvent provenance
// record that is the only thing agents persist.
package domain

import "regexp"

// Phase and Layer are fixed identity literals. Any DecisionEvent or
// AgentIdentity carrying a different value is a constitutional violation.
const (
	Phase = "phase1"
	Layer = "layer1"
)

var agentVersionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// AgentIdentity is the immutable tuple every agent is constructed with at
// startup. It is frozen for the lifetime of the process.
type AgentIdentity struct {
	AgentName    string `json:"agent_name"`
	AgentDomain  string `json:"agent_domain"`
	Phase        string `json:"phase"`
	Layer        string `json:"layer"`
	AgentVersion string `json:"agent_version"`
}

// Validate enforces the structural invariants on an AgentIdentity: phase and
// layer must be the fixed literals, and agent_version must match semver-lite.
func (a AgentIdentity) Validate() error {
	if a.AgentName == "" {
		return &ConstitutionalViolation{Field: "agent_name", Reason: "must not be empty"}
	}
	if a.AgentDomain == "" {
		return &ConstitutionalViolation{Field: "agent_domain", Reason: "must not be empty"}
	}
	if a.Phase != Phase {
		return &ConstitutionalViolation{Field: "phase", Reason: "must equal " + Phase}
	}
	if a.Layer != Layer {
		return &ConstitutionalViolation{Field: "layer", Reason: "must equal " + Layer}
	}
	if !agentVersionPattern.MatchString(a.AgentVersion) {
		return &ConstitutionalViolation{Field: "agent_version", Reason: "must match ^\\d+.\\d+.\\d+$"}
	}
	return nil
}

// ConstitutionalViolation reports a structural invariant breach on an
// identity or DecisionEvent value. It is always fatal to the request that
// raised it.
type ConstitutionalViolation struct {
	Field  string
	Reason string
}

func (e *ConstitutionalViolation) Error() string {
	return "constitutional violation: field " + e.Field + ": " + e.Reason
}
