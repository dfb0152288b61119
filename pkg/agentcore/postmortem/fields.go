package postmortem

import (
	"encoding/json"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// toFields round-trips a FailureEvent through JSON into a generic map so
// the classification engine's dotted-path field extraction can walk it the
// same way it walks any caller-supplied telemetry payload.
func toFields(event domain.FailureEvent) (map[string]any, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
