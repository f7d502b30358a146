package analysis

import (
	"sort"

	"commodity-forecast/internal/model"
)

// RankBySpread summarizes every series and sorts descending by the
// P95-P05 price spread. Ties are broken by variety name.
func RankBySpread(byVariety map[string][]model.Observation) []PriceSummary {
	out := make([]PriceSummary, 0, len(byVariety))
	for _, rows := range byVariety {
		if len(rows) == 0 {
			continue
		}
		out = append(out, Summarize(rows))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SpreadP95P05 != out[j].SpreadP95P05 {
			return out[i].SpreadP95P05 > out[j].SpreadP95P05
		}
		return out[i].Variety < out[j].Variety
	})
	return out
}
