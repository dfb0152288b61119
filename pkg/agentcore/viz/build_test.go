package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func TestBuild_MapsFieldForField(t *testing.T) {
	req := domain.VisualizationRequest{
		ChartType:  "line",
		Title:      "Latency over time",
		XField:     "timestamp",
		YFields:    []string{"latency_p95"},
		Filters:    map[string]any{"provider": "openai"},
		SourceRefs: []string{"exec-1", "exec-2"},
	}

	spec := Build(req)

	assert.Equal(t, req.ChartType, spec.ChartType)
	assert.Equal(t, req.Title, spec.Title)
	assert.Equal(t, req.XField, spec.XField)
	assert.Equal(t, req.YFields, spec.YFields)
	assert.Equal(t, req.Filters, spec.Filters)
	assert.Equal(t, req.SourceRefs, spec.SourceRefs)
}
