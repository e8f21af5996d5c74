package track

import "math"

// smoothTruncate bounds the Gaussian kernel at four standard deviations.
const smoothTruncate = 4.0

// Smooth applies a two-sided Gaussian filter over the series, clamping at
// the edges so boundary frames are weighted toward their nearest neighbour.
// sigma <= 0 returns a copy of the input unchanged.
func Smooth(series []float64, sigma float64) []float64 {
	out := make([]float64, len(series))
	copy(out, series)
	if sigma <= 0 || len(series) == 0 {
		return out
	}

	radius := int(smoothTruncate*sigma + 0.5)
	if radius < 1 {
		return out
	}

	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	n := len(series)
	for i := 0; i < n; i++ {
		acc := 0.0
		for k := -radius; k <= radius; k++ {
			j := i + k
			if j < 0 {
				j = 0
			} else if j >= n {
				j = n - 1
			}
			acc += series[j] * kernel[k+radius]
		}
		out[i] = acc
	}
	return out
}
