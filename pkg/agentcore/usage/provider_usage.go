package usage

import (
	"sort"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// computeProviderUsage groups events by provider with a nested per-model
// breakdown, sorted by request_count descending at both levels.
func computeProviderUsage(events []domain.TelemetryInput) []domain.ProviderUsage {
	if len(events) == 0 {
		return nil
	}

	type modelAgg struct {
		requests int
		tokens   int64
		cost     float64
	}
	type providerAgg struct {
		requests int
		tokens   int64
		cost     float64
		models   map[string]*modelAgg
	}

	providers := make(map[string]*providerAgg)
	total := len(events)

	for _, e := range events {
		p, ok := providers[string(e.Provider)]
		if !ok {
			p = &providerAgg{models: make(map[string]*modelAgg)}
			providers[string(e.Provider)] = p
		}
		p.requests++
		m, ok := p.models[e.Model]
		if !ok {
			m = &modelAgg{}
			p.models[e.Model] = m
		}
		m.requests++

		if e.TokenUsage != nil {
			p.tokens += int64(e.TokenUsage.Total)
			m.tokens += int64(e.TokenUsage.Total)
		}
		if e.Cost != nil {
			p.cost += e.Cost.AmountUSD
			m.cost += e.Cost.AmountUSD
		}
	}

	out := make([]domain.ProviderUsage, 0, len(providers))
	for name, p := range providers {
		models := make([]domain.ModelUsage, 0, len(p.models))
		for modelName, m := range p.models {
			models = append(models, domain.ModelUsage{
				Model:             modelName,
				RequestCount:      m.requests,
				TotalTokens:       m.tokens,
				TotalCostUSD:      m.cost,
				PercentageOfTotal: float64(m.requests) / float64(total) * 100,
			})
		}
		sort.SliceStable(models, func(i, j int) bool { return models[i].RequestCount > models[j].RequestCount })

		out = append(out, domain.ProviderUsage{
			Provider:          name,
			RequestCount:      p.requests,
			TotalTokens:       p.tokens,
			TotalCostUSD:      p.cost,
			PercentageOfTotal: float64(p.requests) / float64(total) * 100,
			Models:            models,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestCount > out[j].RequestCount })
	return out
}
