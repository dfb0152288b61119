package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func TestComputeHotspots_EmptyEventsReturnsNil(t *testing.T) {
	assert.Nil(t, computeHotspots(nil))
}

func TestComputeHotspots_RanksByCountAndSortsByIntensity(t *testing.T) {
	events := []domain.TelemetryInput{
		{Provider: domain.ProviderOpenAI, Model: "gpt-4"},
		{Provider: domain.ProviderOpenAI, Model: "gpt-4"},
		{Provider: domain.ProviderOpenAI, Model: "gpt-4"},
		{Provider: domain.ProviderAnthropic, Model: "claude"},
	}
	hotspots := computeHotspots(events)
	assert.NotEmpty(t, hotspots)
	for i := 1; i < len(hotspots); i++ {
		assert.GreaterOrEqual(t, hotspots[i-1].Intensity, hotspots[i].Intensity)
	}

	var topProvider domain.Hotspot
	for _, h := range hotspots {
		if h.Dimension == domain.HotspotProvider && h.Value == "openai" {
			topProvider = h
		}
	}
	assert.Equal(t, 3, topProvider.RequestCount)
	assert.InDelta(t, 0.75, topProvider.Intensity, 0.0001)
}

func TestComputeHotspots_CapsAtFivePerDimension(t *testing.T) {
	var events []domain.TelemetryInput
	for i := 0; i < 8; i++ {
		events = append(events, domain.TelemetryInput{
			Provider: domain.ProviderOpenAI,
			Model:    string(rune('a' + i)),
		})
	}
	hotspots := computeHotspots(events)
	modelCount := 0
	for _, h := range hotspots {
		if h.Dimension == domain.HotspotModel {
			modelCount++
		}
	}
	assert.Equal(t, hotspotsPerDimension, modelCount)
}
