package gridrun

import (
	"fmt"

	"reframe/internal/stabilize"
)

// Grid lists the parameter values to sweep. Empty axes keep the base value.
type Grid struct {
	Zooms         []float64
	YBiases       []float64
	MaxShiftFracs []float64
	SmoothSigmas  []float64
}

// Combo is one point in the sweep: resolved stabilization parameters plus
// the smoothing sigma applied during extraction.
type Combo struct {
	Label       string
	Params      stabilize.Parameters
	SmoothSigma float64
}

// Combinations expands the grid into the cartesian product of its axes,
// using base and baseSigma for any axis left empty. Labels encode the
// varied values so output files sort usefully.
func (g Grid) Combinations(base stabilize.Parameters, baseSigma float64) []Combo {
	zooms := axisOr(g.Zooms, base.Zoom)
	biases := axisOr(g.YBiases, base.YBias)
	shifts := axisOr(g.MaxShiftFracs, base.MaxShiftFrac)
	sigmas := axisOr(g.SmoothSigmas, baseSigma)

	combos := make([]Combo, 0, len(zooms)*len(biases)*len(shifts)*len(sigmas))
	for _, z := range zooms {
		for _, b := range biases {
			for _, s := range shifts {
				for _, sg := range sigmas {
					p := base
					p.Zoom = z
					p.YBias = b
					p.MaxShiftFrac = s
					combos = append(combos, Combo{
						Label:       fmt.Sprintf("z%.2f_b%.2f_s%.2f_g%.1f", z, b, s, sg),
						Params:      p,
						SmoothSigma: sg,
					})
				}
			}
		}
	}
	return combos
}

func axisOr(values []float64, fallback float64) []float64 {
	if len(values) == 0 {
		return []float64{fallback}
	}
	return values
}
