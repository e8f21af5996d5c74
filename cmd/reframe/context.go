package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"reframe/internal/config"
	"reframe/internal/detect/yolo"
	"reframe/internal/extract"
	"reframe/internal/logging"
	"reframe/internal/services"
	"reframe/internal/services/ffmpeg"
	"reframe/internal/stabilize"
	"reframe/internal/stabilize/opencv"
	"reframe/internal/stabilize/rawvideo"
	"reframe/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{"stderr", filepath.Join(cfg.Paths.LogDir, "reframe.log")},
		})
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger, nil
}

func (c *commandContext) ffmpegClient() (*ffmpeg.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ffmpeg.NewClient(
		ffmpeg.WithBinary(cfg.FFmpegBinary()),
		ffmpeg.WithProbeBinary(cfg.FFprobeBinary()),
	), nil
}

// pipeline bundles the collaborators a processing command needs.
type pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    *ffmpeg.Client
	extractor *extract.Extractor
	engine    stabilize.Engine
	model     *yolo.Model
}

// buildPipeline loads the model and wires extractor, engine, and ffmpeg
// client from configuration. A missing model is not fatal here; the
// workflow falls back to frame-wise extraction at run time.
func (c *commandContext) buildPipeline(engineOverride string) (*pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := c.ffmpegClient()
	if err != nil {
		return nil, err
	}

	var detector extract.Detector
	var model *yolo.Model
	if cfg.Detection.ModelPath != "" {
		m, loadErr := yolo.Load(cfg.Detection.ModelPath, cfg.Detection.Device, logger)
		if loadErr != nil {
			if !errors.Is(loadErr, services.ErrModelUnavailable) {
				return nil, loadErr
			}
			logger.Warn("detection model unavailable", logging.Error(loadErr))
		} else {
			model = m
			detector = m
		}
	}

	engineName := cfg.Stabilization.Engine
	if engineOverride != "" {
		engineName = engineOverride
	}
	var engine stabilize.Engine
	switch engineName {
	case "opencv":
		engine = opencv.New(logger)
	case "rawvideo":
		engine = rawvideo.New(client, logger)
	default:
		return nil, fmt.Errorf("unknown stabilization engine %q", engineName)
	}

	return &pipeline{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		extractor: extract.New(detector, logger),
		engine:    engine,
		model:     model,
	}, nil
}

// Close releases the loaded model, if any.
func (p *pipeline) Close() {
	if p.model != nil {
		_ = p.model.Close()
	}
}

// params resolves stabilization parameters from configuration.
func (p *pipeline) params() stabilize.Parameters {
	s := p.cfg.Stabilization
	return stabilize.Parameters{
		Zoom:         s.Zoom,
		YBias:        s.YBias,
		MaxShiftFrac: s.MaxShiftFrac,
		TargetW:      s.TargetW,
		TargetH:      s.TargetH,
		BorderMode:   stabilize.BorderMode(s.BorderMode),
		VideoCodec:   s.VideoCodec,
	}
}

// extractionOptions resolves extraction options from configuration.
func (p *pipeline) extractionOptions() extract.Options {
	return extract.Options{
		Method:          p.cfg.Extraction.Method,
		Confidence:      p.cfg.Detection.Confidence,
		SmoothSigma:     p.cfg.Extraction.SmoothSigma,
		KeypointIndices: p.cfg.Detection.Keypoints,
	}
}

// newRunner builds a workflow runner over this pipeline with the given
// parameter and option overrides.
func (p *pipeline) newRunner(params stabilize.Parameters, opts extract.Options) (*workflow.Runner, error) {
	return workflow.NewRunner(workflow.RunnerConfig{
		Extractor:  p.extractor,
		Engine:     p.engine,
		Remuxer:    p.client,
		Params:     params,
		Extraction: opts,
		AudioCodec: p.cfg.Audio.Codec,
		Logger:     p.logger,
	})
}
