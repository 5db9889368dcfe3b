package infer

import (
	"sort"

	"statviz/domain/stats"
)

// AdjustPValues corrects a slice of p-values for multiple comparisons.
func AdjustPValues(pValues []float64, method stats.AdjustMethod) []float64 {
	m := len(pValues)
	adjusted := make([]float64, m)
	if m == 0 {
		return adjusted
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}

	switch method {
	case stats.AdjustBonferroni:
		for i, p := range pValues {
			adjusted[i] = clampP(p * float64(m))
		}

	case stats.AdjustHolm:
		sort.Slice(order, func(a, b int) bool { return pValues[order[a]] < pValues[order[b]] })
		running := 0.0
		for rank, idx := range order {
			p := clampP(pValues[idx] * float64(m-rank))
			if p < running {
				p = running
			}
			running = p
			adjusted[idx] = p
		}

	case stats.AdjustBH:
		sort.Slice(order, func(a, b int) bool { return pValues[order[a]] > pValues[order[b]] })
		running := 1.0
		for i, idx := range order {
			rank := m - i // descending order
			p := clampP(pValues[idx] * float64(m) / float64(rank))
			if p > running {
				p = running
			}
			running = p
			adjusted[idx] = p
		}

	default: // AdjustNone
		copy(adjusted, pValues)
	}

	return adjusted
}

func applyAdjustment(comparisons []stats.PairwiseComparison, method stats.AdjustMethod) {
	raw := make([]float64, len(comparisons))
	for i, c := range comparisons {
		raw[i] = c.PValue
	}
	adjusted := AdjustPValues(raw, method)
	for i := range comparisons {
		comparisons[i].PAdjusted = adjusted[i]
	}
}

func clampP(p float64) float64 {
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}
