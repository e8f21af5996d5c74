package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reframe/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantTmp := filepath.Join(tempHome, ".local", "share", "reframe", "tmp")
	if cfg.Paths.TmpDir != wantTmp {
		t.Fatalf("unexpected tmp dir: got %q want %q", cfg.Paths.TmpDir, wantTmp)
	}
	if cfg.Extraction.Method != "track" {
		t.Fatalf("unexpected default extraction method: %q", cfg.Extraction.Method)
	}
	if cfg.Stabilization.Engine != "opencv" {
		t.Fatalf("unexpected default engine: %q", cfg.Stabilization.Engine)
	}
	if cfg.Stabilization.Zoom != 1.05 {
		t.Fatalf("unexpected default zoom: %v", cfg.Stabilization.Zoom)
	}
	if cfg.Stabilization.TargetW != 1080 || cfg.Stabilization.TargetH != 1920 {
		t.Fatalf("unexpected default target: %dx%d", cfg.Stabilization.TargetW, cfg.Stabilization.TargetH)
	}
	if cfg.Audio.Reattach {
		t.Fatal("expected audio reattach disabled by default")
	}
	if got := cfg.Detection.Keypoints; len(got) != 3 || got[0] != 0 || got[1] != 9 || got[2] != 10 {
		t.Fatalf("unexpected default keypoints: %v", got)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected tool defaults: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
}

func TestLoadParsesFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := strings.Join([]string{
		"[extraction]",
		`method = "framewise"`,
		"smooth_sigma = 2.5",
		"",
		"[stabilization]",
		`engine = "rawvideo"`,
		"zoom = 1.2",
		"max_shift_frac = 0.1",
		"",
		"[tools]",
		`ffmpeg = "/opt/ffmpeg/bin/ffmpeg"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config to resolve, got exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Extraction.Method != "framewise" {
		t.Fatalf("unexpected method: %q", cfg.Extraction.Method)
	}
	if cfg.Extraction.SmoothSigma != 2.5 {
		t.Fatalf("unexpected sigma: %v", cfg.Extraction.SmoothSigma)
	}
	if cfg.Stabilization.Engine != "rawvideo" {
		t.Fatalf("unexpected engine: %q", cfg.Stabilization.Engine)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
	// Untouched sections keep defaults.
	if cfg.Stabilization.BorderMode != "reflect101" {
		t.Fatalf("unexpected border mode: %q", cfg.Stabilization.BorderMode)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad device", func(c *config.Config) { c.Detection.Device = "tpu" }, "detection.device"},
		{"bad confidence", func(c *config.Config) { c.Detection.Confidence = 1.5 }, "detection.confidence"},
		{"bad method", func(c *config.Config) { c.Extraction.Method = "magic" }, "extraction.method"},
		{"negative sigma", func(c *config.Config) { c.Extraction.SmoothSigma = -1 }, "smooth_sigma"},
		{"bad engine", func(c *config.Config) { c.Stabilization.Engine = "gpu" }, "stabilization.engine"},
		{"zoom below one", func(c *config.Config) { c.Stabilization.Zoom = 0.9 }, "zoom"},
		{"shift out of range", func(c *config.Config) { c.Stabilization.MaxShiftFrac = 1.5 }, "max_shift_frac"},
		{"zero target", func(c *config.Config) { c.Stabilization.TargetW = 0; c.Stabilization.TargetH = 0 }, "target_w"},
		{"bad border", func(c *config.Config) { c.Stabilization.BorderMode = "mirror" }, "border_mode"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}
	for _, tc := range cases {
		cfg := config.Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected %q in error %q", tc.name, tc.want, err)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}
