// Package viz builds the visualization agent's output: a mechanical,
// validated map from a VisualizationRequest to the VisualizationSpec
// AnalysisOutput. The concrete chart rendering DTO is produced by an
// external code-generator collaborator (spec.md §1's stated non-goal);
// this package only records what was requested, so there is no statistical
// judgment here and no confidence to compute — callers pin confidence at
// 1.0, the spec's convention for agents that only restate validated input.
package viz

import "github.com/ruvector-platform/agentcore/pkg/agentcore/domain"

// Build maps a validated VisualizationRequest onto its VisualizationSpec
// output, field for field.
func Build(req domain.VisualizationRequest) domain.VisualizationSpec {
	return domain.VisualizationSpec{
		ChartType:  req.ChartType,
		Title:      req.Title,
		XField:     req.XField,
		YFields:    req.YFields,
		Filters:    req.Filters,
		SourceRefs: req.SourceRefs,
	}
}
