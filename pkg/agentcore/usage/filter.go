// Package usage implements the usage-pattern aggregator: time-bucketing,
// distribution statistics, OLS trend fitting, seasonality detection, hotspot
// ranking, and growth classification over a window of telemetry events.
// Grounded on the teacher's stats-adjacent session/queue bookkeeping style —
// plain structs built up in deterministic passes over a slice, no external
// statistics library appears anywhere in the retrieved corpus, so this
// package computes everything from encoding/json-free arithmetic over the
// standard library.
package usage

import "github.com/ruvector-platform/agentcore/pkg/agentcore/domain"

// applyFilters returns the subset of events matching every non-empty filter
// field.
func applyFilters(events []domain.TelemetryInput, filters domain.UsageFilters) []domain.TelemetryInput {
	if filters.Provider == "" && filters.Model == "" && filters.Environment == "" && filters.UserID == "" {
		return events
	}
	out := make([]domain.TelemetryInput, 0, len(events))
	for _, e := range events {
		if filters.Provider != "" && string(e.Provider) != filters.Provider {
			continue
		}
		if filters.Model != "" && e.Model != filters.Model {
			continue
		}
		if filters.Environment != "" && e.Metadata.Environment != filters.Environment {
			continue
		}
		if filters.UserID != "" && e.Metadata.UserID != filters.UserID {
			continue
		}
		out = append(out, e)
	}
	return out
}
