package usage

import (
	"sort"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

const hotspotsPerDimension = 5

// computeHotspots ranks the top-5 values per dimension (provider, model,
// user) by request count, then concatenates every dimension's top values
// and sorts the combined list by intensity descending.
func computeHotspots(events []domain.TelemetryInput) []domain.Hotspot {
	total := len(events)
	if total == 0 {
		return nil
	}

	counts := map[domain.HotspotDimension]map[string]int{
		domain.HotspotProvider: {},
		domain.HotspotModel:    {},
		domain.HotspotUser:     {},
	}

	for _, e := range events {
		counts[domain.HotspotProvider][string(e.Provider)]++
		counts[domain.HotspotModel][e.Model]++
		if e.Metadata.UserID != "" {
			counts[domain.HotspotUser][e.Metadata.UserID]++
		}
	}

	var all []domain.Hotspot
	for _, dim := range []domain.HotspotDimension{domain.HotspotProvider, domain.HotspotModel, domain.HotspotUser} {
		all = append(all, topHotspots(dim, counts[dim], total)...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Intensity > all[j].Intensity })
	return all
}

func topHotspots(dim domain.HotspotDimension, counts map[string]int, total int) []domain.Hotspot {
	type pair struct {
		value string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, pair{v, c})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].count > pairs[j].count })

	n := hotspotsPerDimension
	if n > len(pairs) {
		n = len(pairs)
	}

	out := make([]domain.Hotspot, n)
	for i := 0; i < n; i++ {
		out[i] = domain.Hotspot{
			Dimension:         dim,
			Value:             pairs[i].value,
			Intensity:         float64(pairs[i].count) / float64(total),
			RequestCount:      pairs[i].count,
			PercentageOfTotal: float64(pairs[i].count) / float64(total) * 100,
		}
	}
	return out
}
