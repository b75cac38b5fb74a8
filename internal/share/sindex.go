package share

import "sort"

// SIndex aggregates a researcher's per-dataset results into a single index:
// the largest k such that k datasets each have a SHARE score >= k, the
// h-index analogue for data sharing.
func SIndex(results []Result) int {
	totals := make([]float64, len(results))
	for i, r := range results {
		totals[i] = r.Total
	}
	return SIndexFromTotals(totals)
}

// SIndexFromTotals computes the S-Index directly from score totals. Input
// order does not matter; an empty input yields 0. A score exactly equal to
// its 1-indexed rank counts as satisfying.
func SIndexFromTotals(totals []float64) int {
	sorted := make([]float64, len(totals))
	copy(sorted, totals)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	sIndex := 0
	for i, score := range sorted {
		if score < float64(i+1) {
			// Sorted descending: once the rank condition fails it fails
			// for every later rank.
			break
		}
		sIndex = i + 1
	}
	return sIndex
}
