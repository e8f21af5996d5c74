package testsupport

import "math"

// LinearTrack builds xs/ys arrays moving linearly between two points over n
// frames, useful for exercising stabilization plans.
func LinearTrack(n int, x0, y0, x1, y1 float64) ([]float64, []float64) {
	xs := make([]float64, n)
	ys := make([]float64, n)
	if n == 1 {
		xs[0], ys[0] = x0, y0
		return xs, ys
	}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		xs[i] = x0 + (x1-x0)*t
		ys[i] = y0 + (y1-y0)*t
	}
	return xs, ys
}

// GappyTrack returns series where every frame listed in gaps holds NaN,
// simulating frames with no accepted detection.
func GappyTrack(values []float64, gaps ...int) []float64 {
	out := append([]float64(nil), values...)
	for _, idx := range gaps {
		if idx >= 0 && idx < len(out) {
			out[idx] = math.NaN()
		}
	}
	return out
}
