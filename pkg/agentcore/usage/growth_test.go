package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

func TestComputeGrowthPatterns_RapidGrowthClassification(t *testing.T) {
	counts := make([]int, 10)
	for i := range counts {
		if i < 5 {
			counts[i] = 100
		} else {
			counts[i] = 200
		}
	}
	patterns := computeGrowthPatterns(bucketsWithRequestCounts(counts))
	var requestPattern domain.GrowthPattern
	for _, p := range patterns {
		if p.Metric == "request_count" {
			requestPattern = p
		}
	}
	assert.InDelta(t, 100.0, requestPattern.PeriodOverPercent, 0.0001)
	assert.Equal(t, domain.GrowthRapid, requestPattern.Classification)
}

func TestComputeGrowthPatterns_FewerThanTwoBucketsReturnsNil(t *testing.T) {
	assert.Nil(t, computeGrowthPatterns(bucketsWithRequestCounts([]int{5})))
}

func TestClassifyGrowth_Bands(t *testing.T) {
	assert.Equal(t, domain.GrowthRapid, classifyGrowth(21))
	assert.Equal(t, domain.GrowthModerate, classifyGrowth(6))
	assert.Equal(t, domain.GrowthStable, classifyGrowth(0))
	assert.Equal(t, domain.GrowthDecline, classifyGrowth(-10))
	assert.Equal(t, domain.GrowthRapidDown, classifyGrowth(-25))
}
