// Package history reduces a player's prior-season weekly scores to one
// representative per-game figure.
package history

import (
	"slices"
	"sort"
)

// TopNAverage averages the best min(n, available) weeks after dropping weeks
// scored below minScore. It reports false when no week qualifies or n < 1,
// which callers must treat as "no data" rather than zero.
func TopNAverage(scores []float64, n int, minScore float64) (float64, bool) {
	if n < 1 {
		return 0, false
	}
	kept := make([]float64, 0, len(scores))
	for _, s := range scores {
		if s >= minScore {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return 0, false
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(kept)))
	top := kept[:min(n, len(kept))]
	var sum float64
	for _, s := range top {
		sum += s
	}
	return sum / float64(len(top)), true
}

// Aggregate computes TopNAverage for every slug. Slugs without weekly data
// or without a qualifying week are absent from the result.
func Aggregate(weekly map[string][]float64, slugs []string, n int, minScore float64) map[string]float64 {
	out := make(map[string]float64, len(slugs))
	for _, slug := range slices.Compact(slices.Sorted(slices.Values(slugs))) {
		scores, ok := weekly[slug]
		if !ok {
			continue
		}
		if avg, ok := TopNAverage(scores, n, minScore); ok {
			out[slug] = avg
		}
	}
	return out
}
