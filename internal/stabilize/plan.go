package stabilize

import (
	"math"

	"reframe/internal/track"
)

// FrameTransform is the fully resolved per-frame transform: a uniform zoom
// about the frame center followed by a clamped translation.
type FrameTransform struct {
	Scale float64
	TX    float64
	TY    float64
}

// CropRect is the center-crop window applied after warping, before the
// final resize to the target dimensions.
type CropRect struct {
	X, Y int
	W, H int
}

// Plan resolves a finalized track into per-frame transforms for a source
// of the given dimensions. The track must already be reconciled to the
// decoded frame count.
func Plan(t track.Track, width, height int, p Parameters) []FrameTransform {
	w := float64(width)
	h := float64(height)
	cx := w / 2
	cy := h / 2
	lockX := cx
	lockY := cy + p.YBias*h
	maxShift := p.MaxShiftFrac * math.Min(w, h)

	out := make([]FrameTransform, t.Len())
	for i := range out {
		// Subject position after the zoom about frame center.
		zx := cx + p.Zoom*(t.Xs[i]-cx)
		zy := cy + p.Zoom*(t.Ys[i]-cy)
		out[i] = FrameTransform{
			Scale: p.Zoom,
			TX:    clamp(lockX-zx, maxShift),
			TY:    clamp(lockY-zy, maxShift),
		}
	}
	return out
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// Crop computes the center-crop window matching the target aspect ratio
// for a warped frame of the given dimensions.
func Crop(width, height int, p Parameters) CropRect {
	targetAspect := float64(p.TargetW) / float64(p.TargetH)
	srcAspect := float64(width) / float64(height)

	cw, ch := width, height
	if srcAspect > targetAspect {
		cw = int(float64(height) * targetAspect)
	} else if srcAspect < targetAspect {
		ch = int(float64(width) / targetAspect)
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	return CropRect{
		X: (width - cw) / 2,
		Y: (height - ch) / 2,
		W: cw,
		H: ch,
	}
}
