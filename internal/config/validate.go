package config

import (
	"errors"
	"fmt"
)

var validBorderModes = map[string]bool{
	"reflect101": true,
	"reflect":    true,
	"replicate":  true,
	"wrap":       true,
	"constant":   true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateStabilization(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetection() error {
	switch c.Detection.Device {
	case "auto", "cpu", "cuda":
	default:
		return fmt.Errorf("detection.device must be auto, cpu, or cuda (got %q)", c.Detection.Device)
	}
	if c.Detection.Confidence < 0 || c.Detection.Confidence > 1 {
		return errors.New("detection.confidence must be between 0 and 1")
	}
	for _, idx := range c.Detection.Keypoints {
		if idx < 0 {
			return fmt.Errorf("detection.keypoints entries must be non-negative (got %d)", idx)
		}
	}
	return nil
}

func (c *Config) validateExtraction() error {
	switch c.Extraction.Method {
	case "track", "framewise":
	default:
		return fmt.Errorf("extraction.method must be track or framewise (got %q)", c.Extraction.Method)
	}
	if c.Extraction.SmoothSigma < 0 {
		return errors.New("extraction.smooth_sigma must be >= 0")
	}
	return nil
}

func (c *Config) validateStabilization() error {
	switch c.Stabilization.Engine {
	case "opencv", "rawvideo":
	default:
		return fmt.Errorf("stabilization.engine must be opencv or rawvideo (got %q)", c.Stabilization.Engine)
	}
	if c.Stabilization.Zoom < 1.0 {
		return errors.New("stabilization.zoom must be >= 1.0")
	}
	if c.Stabilization.MaxShiftFrac < 0 || c.Stabilization.MaxShiftFrac > 1 {
		return errors.New("stabilization.max_shift_frac must be between 0 and 1")
	}
	if c.Stabilization.TargetW <= 0 || c.Stabilization.TargetH <= 0 {
		return errors.New("stabilization.target_w and target_h must be positive")
	}
	if !validBorderModes[c.Stabilization.BorderMode] {
		return fmt.Errorf("stabilization.border_mode must be one of reflect101, reflect, replicate, wrap, constant (got %q)", c.Stabilization.BorderMode)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	return nil
}
