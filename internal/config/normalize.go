package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDetection()
	c.normalizeExtraction()
	c.normalizeStabilization()
	c.normalizeAudio()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TmpDir) == "" {
		c.Paths.TmpDir = defaultTmpDir
	}
	if c.Paths.TmpDir, err = expandPath(c.Paths.TmpDir); err != nil {
		return fmt.Errorf("paths.tmp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDetection() {
	c.Detection.Device = strings.ToLower(strings.TrimSpace(c.Detection.Device))
	if c.Detection.Device == "" {
		c.Detection.Device = defaultDevice
	}
	c.Detection.ModelPath = strings.TrimSpace(c.Detection.ModelPath)
	if len(c.Detection.Keypoints) == 0 {
		c.Detection.Keypoints = append([]int(nil), defaultKeypoints...)
	}
}

func (c *Config) normalizeExtraction() {
	c.Extraction.Method = strings.ToLower(strings.TrimSpace(c.Extraction.Method))
	if c.Extraction.Method == "" {
		c.Extraction.Method = defaultExtractionMethod
	}
}

func (c *Config) normalizeStabilization() {
	c.Stabilization.Engine = strings.ToLower(strings.TrimSpace(c.Stabilization.Engine))
	if c.Stabilization.Engine == "" {
		c.Stabilization.Engine = defaultEngine
	}
	c.Stabilization.BorderMode = strings.ToLower(strings.TrimSpace(c.Stabilization.BorderMode))
	if c.Stabilization.BorderMode == "" {
		c.Stabilization.BorderMode = defaultBorderMode
	}
	if strings.TrimSpace(c.Stabilization.VideoCodec) == "" {
		c.Stabilization.VideoCodec = defaultVideoCodec
	}
	if c.Stabilization.TargetW == 0 {
		c.Stabilization.TargetW = defaultTargetW
	}
	if c.Stabilization.TargetH == 0 {
		c.Stabilization.TargetH = defaultTargetH
	}
	if c.Stabilization.Zoom == 0 {
		c.Stabilization.Zoom = defaultZoom
	}
}

func (c *Config) normalizeAudio() {
	if strings.TrimSpace(c.Audio.Codec) == "" {
		c.Audio.Codec = defaultAudioCodec
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
