package track

import (
	"fmt"
	"math"
)

// Track is the per-frame sequence of estimated subject-center coordinates
// for one clip. Frames with no accepted detection hold NaN until Finalize
// interpolates them away.
type Track struct {
	Xs []float64
	Ys []float64
}

// New returns a track of n frames with every entry marked missing.
func New(n int) Track {
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = math.NaN()
		ys[i] = math.NaN()
	}
	return Track{Xs: xs, Ys: ys}
}

// Len returns the number of frames covered by the track.
func (t Track) Len() int { return len(t.Xs) }

// Set records the subject center for frame i.
func (t Track) Set(i int, x, y float64) {
	t.Xs[i] = x
	t.Ys[i] = y
}

// Append grows the track by one frame. Use math.NaN for missing detections.
func (t *Track) Append(x, y float64) {
	t.Xs = append(t.Xs, x)
	t.Ys = append(t.Ys, y)
}

// Validate confirms the track is safe to hand to a stabilization engine:
// equal series lengths and no remaining NaN entries.
func (t Track) Validate() error {
	if len(t.Xs) != len(t.Ys) {
		return fmt.Errorf("track series length mismatch: %d xs vs %d ys", len(t.Xs), len(t.Ys))
	}
	for i := range t.Xs {
		if math.IsNaN(t.Xs[i]) || math.IsNaN(t.Ys[i]) {
			return fmt.Errorf("track frame %d still missing after finalize", i)
		}
	}
	return nil
}

// Finalize fills detection gaps by linear interpolation (falling back to the
// frame geometric center when the whole clip had no detections) and applies
// Gaussian temporal smoothing. sigma 0 disables smoothing.
func (t Track) Finalize(centerX, centerY, sigma float64) (Track, error) {
	if len(t.Xs) != len(t.Ys) {
		return Track{}, fmt.Errorf("track series length mismatch: %d xs vs %d ys", len(t.Xs), len(t.Ys))
	}
	out := Track{
		Xs: Fill(t.Xs, centerX),
		Ys: Fill(t.Ys, centerY),
	}
	if sigma > 0 {
		out.Xs = Smooth(out.Xs, sigma)
		out.Ys = Smooth(out.Ys, sigma)
	}
	if err := out.Validate(); err != nil {
		return Track{}, err
	}
	return out, nil
}

// Reconcile adjusts the track length to the decoded frame count: the last
// value repeats for extra frames and excess entries are dropped.
func (t Track) Reconcile(frames int) Track {
	return Track{
		Xs: ReconcileSeries(t.Xs, frames),
		Ys: ReconcileSeries(t.Ys, frames),
	}
}
