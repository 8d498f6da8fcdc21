package analysis

import "sort"

// percentile returns the q-th quantile (0..1) of vals using linear
// interpolation between closest ranks. Small inputs may produce
// degenerate cutoffs; callers accept whatever comes back.
func percentile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	h := q * float64(len(sorted)-1)
	lo := int(h)
	frac := h - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
