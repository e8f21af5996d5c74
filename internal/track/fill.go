package track

import "math"

// Fill replaces NaN entries with values linearly interpolated between the
// nearest valid neighbours, indexed by frame number. Leading and trailing
// gaps take the first/last valid value. A series with a single valid entry
// holds that value everywhere; a series with none holds fallback everywhere.
func Fill(series []float64, fallback float64) []float64 {
	out := make([]float64, len(series))
	copy(out, series)

	valid := make([]int, 0, len(series))
	for i, v := range series {
		if !math.IsNaN(v) {
			valid = append(valid, i)
		}
	}

	switch len(valid) {
	case 0:
		for i := range out {
			out[i] = fallback
		}
		return out
	case 1:
		for i := range out {
			out[i] = series[valid[0]]
		}
		return out
	}

	first, last := valid[0], valid[len(valid)-1]
	for i := 0; i < first; i++ {
		out[i] = series[first]
	}
	for i := last + 1; i < len(out); i++ {
		out[i] = series[last]
	}

	for seg := 0; seg < len(valid)-1; seg++ {
		lo, hi := valid[seg], valid[seg+1]
		if hi == lo+1 {
			continue
		}
		span := float64(hi - lo)
		for i := lo + 1; i < hi; i++ {
			t := float64(i-lo) / span
			out[i] = series[lo] + (series[hi]-series[lo])*t
		}
	}
	return out
}
