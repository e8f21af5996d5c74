package rawvideo

import (
	"reframe/internal/stabilize"
)

// affine maps destination pixel coordinates back to source coordinates.
// Warping with inverse maps avoids holes in the output.
type affine struct {
	a, b, c float64
	d, e, f float64
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.b*y + m.c, m.d*x + m.e*y + m.f
}

// zoomAboutCenter builds the inverse map for a uniform scale about (cx, cy).
func zoomAboutCenter(scale, cx, cy float64) affine {
	inv := 1.0 / scale
	return affine{
		a: inv, b: 0, c: cx * (1 - inv),
		d: 0, e: inv, f: cy * (1 - inv),
	}
}

// translation builds the inverse map for a shift of (tx, ty).
func translation(tx, ty float64) affine {
	return affine{a: 1, c: -tx, e: 1, f: -ty}
}

// borderIndex maps an out-of-range coordinate onto a valid index for the
// given fill mode. ok is false when the mode leaves the pixel constant.
func borderIndex(i, n int, mode stabilize.BorderMode) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch mode {
	case stabilize.BorderReplicate:
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	case stabilize.BorderWrap:
		m := i % n
		if m < 0 {
			m += n
		}
		return m, true
	case stabilize.BorderReflect:
		period := 2 * n
		m := i % period
		if m < 0 {
			m += period
		}
		if m >= n {
			m = period - 1 - m
		}
		return m, true
	case stabilize.BorderReflect101:
		if n == 1 {
			return 0, true
		}
		period := 2 * (n - 1)
		m := i % period
		if m < 0 {
			m += period
		}
		if m >= n {
			m = period - m
		}
		return m, true
	default: // constant
		return 0, false
	}
}

// sample reads one RGB pixel with border handling applied per axis.
func sample(src []byte, w, h, x, y int, mode stabilize.BorderMode) (r, g, b float64) {
	xi, okX := borderIndex(x, w, mode)
	yi, okY := borderIndex(y, h, mode)
	if !okX || !okY {
		return 0, 0, 0
	}
	off := (yi*w + xi) * 3
	return float64(src[off]), float64(src[off+1]), float64(src[off+2])
}

// warpAffine resamples src into dst using bilinear interpolation over the
// inverse map m. Both buffers hold packed RGB24 frames of w by h pixels.
func warpAffine(dst, src []byte, w, h int, m affine, mode stabilize.BorderMode) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := m.apply(float64(x), float64(y))
			x0 := int(floor(sx))
			y0 := int(floor(sy))
			fx := sx - float64(x0)
			fy := sy - float64(y0)

			r00, g00, b00 := sample(src, w, h, x0, y0, mode)
			r10, g10, b10 := sample(src, w, h, x0+1, y0, mode)
			r01, g01, b01 := sample(src, w, h, x0, y0+1, mode)
			r11, g11, b11 := sample(src, w, h, x0+1, y0+1, mode)

			w00 := (1 - fx) * (1 - fy)
			w10 := fx * (1 - fy)
			w01 := (1 - fx) * fy
			w11 := fx * fy

			off := (y*w + x) * 3
			dst[off] = clampByte(r00*w00 + r10*w10 + r01*w01 + r11*w11)
			dst[off+1] = clampByte(g00*w00 + g10*w10 + g01*w01 + g11*w11)
			dst[off+2] = clampByte(b00*w00 + b10*w10 + b01*w01 + b11*w11)
		}
	}
}

// cropFrame copies the rectangle r out of src into dst. dst must hold
// r.W * r.H * 3 bytes.
func cropFrame(dst, src []byte, w int, r stabilize.CropRect) {
	for row := 0; row < r.H; row++ {
		srcOff := ((r.Y+row)*w + r.X) * 3
		dstOff := row * r.W * 3
		copy(dst[dstOff:dstOff+r.W*3], src[srcOff:srcOff+r.W*3])
	}
}

// resizeFrame scales src (sw by sh) into dst (dw by dh) with bilinear
// interpolation and replicate edges.
func resizeFrame(dst, src []byte, sw, sh, dw, dh int) {
	xRatio := float64(sw) / float64(dw)
	yRatio := float64(sh) / float64(dh)
	for y := 0; y < dh; y++ {
		sy := (float64(y)+0.5)*yRatio - 0.5
		y0 := int(floor(sy))
		fy := sy - float64(y0)
		for x := 0; x < dw; x++ {
			sx := (float64(x)+0.5)*xRatio - 0.5
			x0 := int(floor(sx))
			fx := sx - float64(x0)

			r00, g00, b00 := sample(src, sw, sh, x0, y0, stabilize.BorderReplicate)
			r10, g10, b10 := sample(src, sw, sh, x0+1, y0, stabilize.BorderReplicate)
			r01, g01, b01 := sample(src, sw, sh, x0, y0+1, stabilize.BorderReplicate)
			r11, g11, b11 := sample(src, sw, sh, x0+1, y0+1, stabilize.BorderReplicate)

			w00 := (1 - fx) * (1 - fy)
			w10 := fx * (1 - fy)
			w01 := (1 - fx) * fy
			w11 := fx * fy

			off := (y*dw + x) * 3
			dst[off] = clampByte(r00*w00 + r10*w10 + r01*w01 + r11*w11)
			dst[off+1] = clampByte(g00*w00 + g10*w10 + g01*w01 + g11*w11)
			dst[off+2] = clampByte(b00*w00 + b10*w10 + b01*w01 + b11*w11)
		}
	}
}

func floor(v float64) float64 {
	f := float64(int(v))
	if v < 0 && f != v {
		f--
	}
	return f
}

func clampByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}
