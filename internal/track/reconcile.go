package track

// ReconcileSeries resizes a series to n entries: a short series is padded by
// repeating its final value, a long series is truncated. An empty series
// stays empty regardless of n.
func ReconcileSeries(series []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < len(series) {
			out[i] = series[i]
		} else {
			out[i] = series[len(series)-1]
		}
	}
	return out
}
