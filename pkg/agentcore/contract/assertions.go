// Package contract implements the per-request ledger that proves at least
// one DecisionEvent was emitted before the request completes — the last
// line of defense against an otherwise-successful path silently producing
// no provenance record. Grounded on the teacher's Worker.Health bookkeeping
// style: a small struct of counters inspected at a well-defined checkpoint,
// not an asynchronous monitor.
package contract

import "fmt"

// Violation reports a request that completed its analytical work without
// ever recording a DecisionEvent. The pipeline maps this to a 500:
// ContractViolation is treated as a bug, not a caller error.
type Violation struct {
	ExecutionRef string
}

func (e *Violation) Error() string {
	return fmt.Sprintf("contract violation: no DecisionEvent recorded for execution_ref=%s", e.ExecutionRef)
}

// Ledger tracks DecisionEvent emission for exactly one request. It is not
// safe for concurrent use from multiple goroutines handling the same
// request — a request's pipeline is single-threaded analytical code — and
// is discarded at the end of the request.
type Ledger struct {
	executionRef string
	emitted      int
}

// New starts a ledger for a given request's execution_ref.
func New(executionRef string) *Ledger {
	return &Ledger{executionRef: executionRef}
}

// RecordEmission marks that a DecisionEvent was built and persisted for
// this request. Call this once persistence succeeds.
func (l *Ledger) RecordEmission() {
	l.emitted++
}

// Assert returns a *Violation if no DecisionEvent was ever recorded,
// satisfying the "at least one" contract. Call this at the end of request
// handling, before the response is sent.
func (l *Ledger) Assert() error {
	if l.emitted < 1 {
		return &Violation{ExecutionRef: l.executionRef}
	}
	return nil
}

// Count reports how many DecisionEvents were recorded for this request, for
// diagnostics.
func (l *Ledger) Count() int {
	return l.emitted
}
