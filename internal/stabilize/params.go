package stabilize

import (
	"errors"
	"fmt"
)

// BorderMode selects how pixels exposed at the frame edges by the
// camera-follow transform are filled.
type BorderMode string

const (
	BorderReflect101 BorderMode = "reflect101"
	BorderReflect    BorderMode = "reflect"
	BorderReplicate  BorderMode = "replicate"
	BorderWrap       BorderMode = "wrap"
	BorderConstant   BorderMode = "constant"
)

// ParseBorderMode maps a configuration string onto a BorderMode.
func ParseBorderMode(s string) (BorderMode, error) {
	switch BorderMode(s) {
	case BorderReflect101, BorderReflect, BorderReplicate, BorderWrap, BorderConstant:
		return BorderMode(s), nil
	case "":
		return BorderReflect101, nil
	default:
		return "", fmt.Errorf("unknown border mode %q", s)
	}
}

// Parameters control the camera-follow transform for one clip. They are
// built once per job and never mutated while the job runs.
type Parameters struct {
	Zoom         float64
	YBias        float64
	MaxShiftFrac float64
	TargetW      int
	TargetH      int
	BorderMode   BorderMode
	VideoCodec   string
}

// Validate reports the first constraint violation, if any.
func (p Parameters) Validate() error {
	if p.Zoom < 1.0 {
		return errors.New("zoom must be >= 1.0")
	}
	if p.MaxShiftFrac < 0 || p.MaxShiftFrac > 1 {
		return errors.New("max_shift_frac must be between 0 and 1")
	}
	if p.TargetW <= 0 || p.TargetH <= 0 {
		return errors.New("target dimensions must be positive")
	}
	if _, err := ParseBorderMode(string(p.BorderMode)); err != nil {
		return err
	}
	return nil
}
