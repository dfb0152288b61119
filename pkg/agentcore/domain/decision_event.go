package domain

import "time"

// EvidenceRef points a DecisionEvent's conclusion back at the telemetry it
// was derived from.
type EvidenceRef struct {
	RefType   EvidenceRefType `json:"ref_type" validate:"required,oneof=span_id trace_id log_id metric_id external"`
	RefValue  string          `json:"ref_value" validate:"required"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	Source    string          `json:"source,omitempty"`
}

// DecisionEvent is the sole provenance record an agent writes per request.
// Every field here is part of the constitutional contract: constraints
// applied MUST be empty, phase/layer MUST be the fixed literals, and
// decision_type MUST match the owning agent's literal.
type DecisionEvent struct {
	SourceAgent  string `json:"source_agent" validate:"required"`
	Domain       string `json:"domain" validate:"required"`
	Phase        string `json:"phase" validate:"required,eq=phase1"`
	Layer        string `json:"layer" validate:"required,eq=layer1"`
	AgentID      string `json:"agent_id" validate:"required"`
	AgentVersion string `json:"agent_version" validate:"required"`

	DecisionType string `json:"decision_type" validate:"required"`
	EventType    string `json:"event_type" validate:"required"`

	InputsHash string `json:"inputs_hash" validate:"required,len=64,hexadecimal"`

	Outputs []any `json:"outputs" validate:"required,min=1"`

	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`

	// ConstraintsApplied MUST be structurally empty. It is a slice of string
	// rather than a narrower type because the schema validator's literal
	// check, not the Go type system, is what the spec requires to enforce
	// this — the field must round-trip through JSON as `[]`.
	ConstraintsApplied []string `json:"constraints_applied" validate:"len=0"`

	EvidenceRefs []EvidenceRef `json:"evidence_refs"`

	ExecutionRef string    `json:"execution_ref" validate:"required"`
	Timestamp    time.Time `json:"timestamp" validate:"required"`
}

// ValidateStructural enforces the literal-field invariants that the schema
// validator cannot express purely with struct tags: constraints_applied
// must be the empty list (not merely unset), and phase/layer must match the
// fixed literals.
func (e *DecisionEvent) ValidateStructural(expectedDecisionType string) error {
	if e.Phase != Phase {
		return &ConstitutionalViolation{Field: "phase", Reason: "must equal " + Phase}
	}
	if e.Layer != Layer {
		return &ConstitutionalViolation{Field: "layer", Reason: "must equal " + Layer}
	}
	if e.ConstraintsApplied == nil {
		return &ConstitutionalViolation{Field: "constraints_applied", Reason: "must be the empty list, not null"}
	}
	if len(e.ConstraintsApplied) != 0 {
		return &ConstitutionalViolation{Field: "constraints_applied", Reason: "must be the empty list"}
	}
	if e.DecisionType != expectedDecisionType {
		return &ConstitutionalViolation{Field: "decision_type", Reason: "must equal " + expectedDecisionType}
	}
	if len(e.Outputs) == 0 {
		return &ConstitutionalViolation{Field: "outputs", Reason: "must be non-empty"}
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return &ConstitutionalViolation{Field: "confidence", Reason: "must be in [0,1]"}
	}
	return nil
}
