package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"reframe/internal/extract"
	"reframe/internal/logging"
	"reframe/internal/services"
	"reframe/internal/stabilize"
	"reframe/internal/track"
)

// Extractor produces a subject track for one video. The extract package
// provides the production implementation.
type Extractor interface {
	ExtractTrack(ctx context.Context, videoPath string, opts extract.Options) (track.Track, error)
}

// Remuxer reattaches an audio stream onto an audio-less video.
type Remuxer interface {
	Remux(ctx context.Context, videoNoAudio, audioSource, outPath, audioCodec string) error
}

// RunnerConfig wires a Runner's collaborators and per-job settings.
type RunnerConfig struct {
	Extractor  Extractor
	Engine     stabilize.Engine
	Remuxer    Remuxer
	Params     stabilize.Parameters
	Extraction extract.Options
	AudioCodec string
	Logger     *slog.Logger
}

// Runner drives one clip job through extraction, stabilization, and
// optional audio reattachment. It owns the fallback and failure policy.
type Runner struct {
	cfg    RunnerConfig
	logger *slog.Logger
}

// NewRunner validates collaborators and returns a runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("runner requires an extractor")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("runner requires a stabilization engine")
	}
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(cfg.Logger, "workflow"),
	}, nil
}

// Run executes one clip job to a terminal state. On success exactly one
// file exists at the job's output path; on failure nothing is left there,
// though a preserved audio-less intermediate may remain after a remux
// failure.
func (r *Runner) Run(ctx context.Context, job ClipJob) Result {
	ctx = services.WithClipID(ctx, job.ID)
	log := r.logger.With(logging.String(logging.FieldClipID, job.ID))

	if err := job.Validate(); err != nil {
		return r.fail(ctx, log, "validate", err, false)
	}

	opts := r.cfg.Extraction
	if job.ExtractionMethod != "" {
		opts.Method = job.ExtractionMethod
	}
	if opts.Method == "" {
		opts.Method = extract.MethodTrack
	}

	subjectTrack, fallbackUsed, err := r.extractWithFallback(ctx, log, job.InputPath, opts)
	if err != nil {
		return r.fail(ctx, log, "extraction", err, fallbackUsed)
	}

	tempPath := job.tempOutputPath()
	if err := r.cfg.Engine.StabilizeAndCrop(ctx, job.InputPath, tempPath, subjectTrack, r.cfg.Params); err != nil {
		_ = os.Remove(tempPath)
		return r.fail(ctx, log, "stabilization", err, fallbackUsed)
	}

	if job.ReattachAudio {
		if r.cfg.Remuxer == nil {
			_ = os.Remove(tempPath)
			return r.fail(ctx, log, "remux",
				services.Wrap(services.ErrRemux, "remux", "configure", "no remuxer available", nil),
				fallbackUsed)
		}
		muxPath := job.remuxOutputPath()
		if err := r.cfg.Remuxer.Remux(ctx, tempPath, job.AudioSourcePath, muxPath, r.cfg.AudioCodec); err != nil {
			// The stabilized video survives at tempPath for inspection.
			_ = os.Remove(muxPath)
			res := r.fail(ctx, log, "remux", err, fallbackUsed)
			res.Message = fmt.Sprintf("%s (audio-less video preserved at %s)", res.Message, tempPath)
			return res
		}
		if err := os.Rename(muxPath, job.OutputPath); err != nil {
			_ = os.Remove(muxPath)
			res := r.fail(ctx, log, "finalize", err, fallbackUsed)
			res.Message = fmt.Sprintf("%s (audio-less video preserved at %s)", res.Message, tempPath)
			return res
		}
		_ = os.Remove(tempPath)
	} else {
		if err := os.Rename(tempPath, job.OutputPath); err != nil {
			_ = os.Remove(tempPath)
			return r.fail(ctx, log, "finalize", err, fallbackUsed)
		}
	}

	log.InfoContext(ctx, "clip job done",
		logging.String(logging.FieldOutput, job.OutputPath),
		logging.Bool("fallback_used", fallbackUsed),
	)
	return Result{
		Status:       StatusDone,
		Message:      "ok",
		OutputPath:   job.OutputPath,
		FallbackUsed: fallbackUsed,
	}
}

// extractWithFallback attempts extraction with the requested method and
// retries exactly once with the frame-wise method when tracking is
// unavailable. Any other failure, or a second failure, is terminal.
func (r *Runner) extractWithFallback(ctx context.Context, log *slog.Logger, inputPath string, opts extract.Options) (track.Track, bool, error) {
	tr, err := r.cfg.Extractor.ExtractTrack(ctx, inputPath, opts)
	if err == nil {
		return tr, false, nil
	}
	if opts.Method != extract.MethodTrack || !errors.Is(err, services.ErrModelUnavailable) {
		return track.Track{}, false, err
	}

	log.WarnContext(ctx, "tracking unavailable, falling back to frame-wise extraction",
		logging.Error(err))
	opts.Method = extract.MethodFramewise
	tr, retryErr := r.cfg.Extractor.ExtractTrack(ctx, inputPath, opts)
	if retryErr != nil {
		return track.Track{}, true, fmt.Errorf(
			"both extraction methods failed: track (%v); framewise (%w)", err, retryErr)
	}
	return tr, true, nil
}

func (r *Runner) fail(ctx context.Context, log *slog.Logger, stage string, err error, fallbackUsed bool) Result {
	log.ErrorContext(ctx, "clip job failed",
		logging.String(logging.FieldStage, stage),
		logging.String("class", string(services.Classify(err))),
		logging.Error(err),
	)
	return Result{
		Status:       StatusFailed,
		Message:      fmt.Sprintf("%s: %v", stage, err),
		FallbackUsed: fallbackUsed,
	}
}
