// Package pipeline drives one agent request through the state machine
// spec.md §4.7 describes: Received -> Validated -> Guarded -> Analyzed ->
// DecisionBuilt -> Persisted -> Responded, with a single terminal Aborted
// state carrying the reason that maps to an HTTP status. Grounded on the
// teacher's request-handling shape in pkg/api/handlers.go (decode, validate,
// do the work, persist, respond) generalized into an explicit, reusable
// driver shared by every agent binary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/contract"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/gateway"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/guard"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/hashing"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/metrics"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/schema"
)

// AbortReason is the closed set of terminal failure kinds the request state
// machine can raise.
type AbortReason string

const (
	ReasonValidation     AbortReason = "ValidationError"
	ReasonPerformance    AbortReason = "PerformanceBoundaryExceeded"
	ReasonConstitutional AbortReason = "ConstitutionalViolation"
	ReasonPersistence    AbortReason = "PersistenceError"
	ReasonContract       AbortReason = "ContractViolation"
)

// StatusCode maps an AbortReason to the spec's mandated HTTP status.
func (r AbortReason) StatusCode() int {
	switch r {
	case ReasonValidation:
		return 400
	case ReasonPerformance:
		return 503
	case ReasonConstitutional:
		return 500
	case ReasonPersistence:
		return 502
	case ReasonContract:
		return 500
	default:
		return 500
	}
}

// Aborted reports a request that terminated without producing a successful
// response. Reason selects the HTTP status; Err carries the underlying
// cause for logging.
type Aborted struct {
	Reason AbortReason
	Err    error
}

func (a *Aborted) Error() string {
	return fmt.Sprintf("aborted(%s): %v", a.Reason, a.Err)
}

func (a *Aborted) Unwrap() error { return a.Err }

// AnalyzeFunc runs an agent's analytical component under the request's
// guard, returning the AnalysisOutput(s) to embed in a DecisionEvent's
// outputs, the evidence references it derived them from, and the
// component's confidence.
type AnalyzeFunc func(g *guard.Guard) (outputs []any, evidenceRefs []domain.EvidenceRef, confidence float64, err error)

// Pipeline drives one agent's request lifecycle: performance guarding,
// analysis, DecisionEvent construction, persistence, and the final contract
// assertion. Schema validation (Received -> Validated) happens ahead of Run,
// via ParseAndValidate, since each agent's input schema differs.
type Pipeline struct {
	Identity       domain.AgentIdentity
	DecisionType   string
	EventType      string
	MaxLatencyMs   int64
	MaxCallsPerRun int64
	Gateway        *gateway.Client
	Validator      *schema.Validator
	Metrics        *metrics.Metrics
}

// New constructs a Pipeline bound to one agent's frozen identity, its fixed
// decision_type literal, and the free-form event_type signal tag it stamps
// onto every DecisionEvent it persists (spec.md §4: the two are distinct
// contract fields, not aliases of each other).
func New(identity domain.AgentIdentity, decisionType, eventType string, maxLatencyMs, maxCallsPerRun int64, gw *gateway.Client, validator *schema.Validator, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		Identity:       identity,
		DecisionType:   decisionType,
		EventType:      eventType,
		MaxLatencyMs:   maxLatencyMs,
		MaxCallsPerRun: maxCallsPerRun,
		Gateway:        gw,
		Validator:      validator,
		Metrics:        m,
	}
}

// Result is what a successful Run or RunBatch returns.
type Result struct {
	Event            *domain.DecisionEvent
	ProcessingTimeMs int64
}

// ParseAndValidate decodes raw into dest under strict schema rules. On
// failure it returns *Aborted{Reason: ReasonValidation}, the request's
// Received -> Validated transition.
func (p *Pipeline) ParseAndValidate(raw []byte, dest any) error {
	if errs := p.Validator.ParseStrict(raw, dest); errs != nil {
		return &Aborted{Reason: ReasonValidation, Err: errs}
	}
	return nil
}

// Run drives Validated -> Responded for one already-validated, single-item
// request. inputsFor is hashed to populate inputs_hash.
func (p *Pipeline) Run(ctx context.Context, inputsFor any, analyze AnalyzeFunc) (*Result, error) {
	g := guard.New(p.MaxLatencyMs, p.MaxCallsPerRun)

	if err := g.CheckLatency(); err != nil {
		return nil, &Aborted{Reason: ReasonPerformance, Err: err}
	}

	outputs, evidenceRefs, confidence, err := analyze(g)
	if err != nil {
		return nil, analysisAbort(err)
	}

	inputsHash, err := hashing.Hash(inputsFor, hashing.DefaultOptions())
	if err != nil {
		return nil, &Aborted{Reason: ReasonConstitutional, Err: err}
	}

	event := p.buildEvent(inputsHash, outputs, evidenceRefs, confidence)
	if err := event.ValidateStructural(p.DecisionType); err != nil {
		return nil, &Aborted{Reason: ReasonConstitutional, Err: err}
	}

	if err := p.persist(ctx, g, event); err != nil {
		return nil, err
	}

	return &Result{Event: event, ProcessingTimeMs: g.ElapsedMs()}, nil
}

// BatchItemFunc analyzes one item of a batch request, identified by its
// input-order index.
type BatchItemFunc func(g *guard.Guard, index int) (outputs []any, evidenceRefs []domain.EvidenceRef, confidence float64, err error)

// RunBatch analyzes every item in input order, collecting per-item failures
// without aborting the batch unless failFast is set or a performance guard
// trips. Exactly one aggregate DecisionEvent is emitted covering every
// successfully analyzed item, preserving input order in its outputs.
func (p *Pipeline) RunBatch(ctx context.Context, items []any, analyzeItem BatchItemFunc, failFast bool) (*Result, []domain.BatchItemResult, error) {
	g := guard.New(p.MaxLatencyMs, p.MaxCallsPerRun)

	if err := g.CheckLatency(); err != nil {
		return nil, nil, &Aborted{Reason: ReasonPerformance, Err: err}
	}

	itemResults := make([]domain.BatchItemResult, 0, len(items))
	var outputs []any
	var evidenceRefs []domain.EvidenceRef
	var confidenceSum float64
	var succeeded int

	for i, item := range items {
		if err := g.CheckLatency(); err != nil {
			return nil, nil, &Aborted{Reason: ReasonPerformance, Err: err}
		}

		itemOutputs, itemRefs, confidence, err := analyzeItem(g, i)
		if err != nil {
			var boundary *guard.BoundaryExceeded
			if errors.As(err, &boundary) {
				return nil, nil, &Aborted{Reason: ReasonPerformance, Err: err}
			}
			itemResults = append(itemResults, domain.BatchItemResult{Index: i, Status: domain.BatchItemFailed, Error: err.Error()})
			if failFast {
				break
			}
			continue
		}

		outputs = append(outputs, itemOutputs...)
		evidenceRefs = append(evidenceRefs, itemRefs...)
		confidenceSum += confidence
		succeeded++
		itemResults = append(itemResults, domain.BatchItemResult{Index: i, Status: domain.BatchItemOK})

		_ = item
	}

	if succeeded == 0 {
		return nil, itemResults, &Aborted{Reason: ReasonConstitutional, Err: errors.New("no batch item produced analysis output")}
	}

	inputsHash, err := hashing.HashMany(items, hashing.DefaultOptions())
	if err != nil {
		return nil, itemResults, &Aborted{Reason: ReasonConstitutional, Err: err}
	}

	event := p.buildEvent(inputsHash, outputs, evidenceRefs, confidenceSum/float64(succeeded))
	if err := event.ValidateStructural(p.DecisionType); err != nil {
		return nil, itemResults, &Aborted{Reason: ReasonConstitutional, Err: err}
	}

	if err := p.persist(ctx, g, event); err != nil {
		return nil, itemResults, err
	}

	return &Result{Event: event, ProcessingTimeMs: g.ElapsedMs()}, itemResults, nil
}

func (p *Pipeline) buildEvent(inputsHash string, outputs []any, evidenceRefs []domain.EvidenceRef, confidence float64) *domain.DecisionEvent {
	return &domain.DecisionEvent{
		SourceAgent:        p.Identity.AgentName,
		Domain:             p.Identity.AgentDomain,
		Phase:              p.Identity.Phase,
		Layer:              p.Identity.Layer,
		AgentID:            p.Identity.AgentName,
		AgentVersion:       p.Identity.AgentVersion,
		DecisionType:       p.DecisionType,
		EventType:          p.EventType,
		InputsHash:         inputsHash,
		Outputs:            outputs,
		Confidence:         confidence,
		ConstraintsApplied: []string{},
		EvidenceRefs:       evidenceRefs,
		ExecutionRef:       uuid.NewString(),
		Timestamp:          time.Now().UTC(),
	}
}

// persist drives DecisionBuilt -> Persisted -> Responded: it reserves a
// guard call slot, persists the event, and asserts the contract ledger
// before returning.
func (p *Pipeline) persist(ctx context.Context, g *guard.Guard, event *domain.DecisionEvent) error {
	if err := g.CheckLatency(); err != nil {
		return &Aborted{Reason: ReasonPerformance, Err: err}
	}
	if err := g.ReserveCall(); err != nil {
		return &Aborted{Reason: ReasonPerformance, Err: err}
	}

	ledger := contract.New(event.ExecutionRef)
	start := time.Now()
	err := p.Gateway.PersistDecision(ctx, event)
	if p.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		p.Metrics.RecordGatewayCall("persist_decision", outcome, time.Since(start))
	}
	if err != nil {
		return &Aborted{Reason: ReasonPersistence, Err: err}
	}
	ledger.RecordEmission()

	if err := ledger.Assert(); err != nil {
		return &Aborted{Reason: ReasonContract, Err: err}
	}
	return nil
}

func analysisAbort(err error) error {
	var boundary *guard.BoundaryExceeded
	if errors.As(err, &boundary) {
		return &Aborted{Reason: ReasonPerformance, Err: err}
	}
	return &Aborted{Reason: ReasonConstitutional, Err: err}
}
