package rawvideo

import (
	"context"
	"log/slog"

	"reframe/internal/logging"
	"reframe/internal/services"
	"reframe/internal/services/ffmpeg"
	"reframe/internal/stabilize"
	"reframe/internal/track"
)

// Engine renders the camera-follow pass through ffmpeg rawvideo pipes,
// warping frames in process. It needs no native vision library, only a
// working ffmpeg binary.
type Engine struct {
	client *ffmpeg.Client
	logger *slog.Logger
}

// New returns a rawvideo engine backed by the given ffmpeg client.
func New(client *ffmpeg.Client, logger *slog.Logger) *Engine {
	return &Engine{
		client: client,
		logger: logging.NewComponentLogger(logger, "stabilize-rawvideo"),
	}
}

// Name identifies the engine in configuration and logs.
func (e *Engine) Name() string { return "rawvideo" }

// StabilizeAndCrop decodes inputPath frame by frame, applies the planned
// zoom and translation warps, center-crops to the target aspect ratio,
// resizes, and encodes the result to outputPath without audio.
func (e *Engine) StabilizeAndCrop(ctx context.Context, inputPath, outputPath string, t track.Track, p stabilize.Parameters) error {
	if err := stabilize.CheckTrack(t); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "stabilize", "parameters", err.Error(), nil)
	}

	dec, err := e.client.OpenRawDecoder(ctx, inputPath)
	if err != nil {
		return err
	}
	defer dec.Close()

	w, h := dec.Width(), dec.Height()
	if n := dec.FrameCount(); n > 0 {
		t = t.Reconcile(n)
	}
	plan := stabilize.Plan(t, w, h, p)
	crop := stabilize.Crop(w, h, p)

	enc, err := e.client.OpenRawEncoder(ctx, outputPath, p.TargetW, p.TargetH, dec.FrameRate(), p.VideoCodec)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "stabilize", "open encoder", outputPath, err)
	}

	frame := make([]byte, dec.FrameSize())
	warped := make([]byte, dec.FrameSize())
	shifted := make([]byte, dec.FrameSize())
	cropped := make([]byte, crop.W*crop.H*3)
	output := make([]byte, p.TargetW*p.TargetH*3)

	cx := float64(w) / 2
	cy := float64(h) / 2

	frameIdx := 0
	for {
		ok, readErr := dec.ReadFrame(frame)
		if readErr != nil {
			_ = enc.Close()
			return services.Wrap(services.ErrVideoOpen, "stabilize", "decode", inputPath, readErr)
		}
		if !ok {
			break
		}

		// Extra decoded frames reuse the last planned transform.
		idx := frameIdx
		if idx >= len(plan) {
			idx = len(plan) - 1
		}
		ft := plan[idx]

		warpAffine(warped, frame, w, h, zoomAboutCenter(ft.Scale, cx, cy), p.BorderMode)
		warpAffine(shifted, warped, w, h, translation(ft.TX, ft.TY), p.BorderMode)
		cropFrame(cropped, shifted, w, crop)
		resizeFrame(output, cropped, crop.W, crop.H, p.TargetW, p.TargetH)

		if err := enc.WriteFrame(output); err != nil {
			_ = enc.Close()
			return services.Wrap(services.ErrExternalTool, "stabilize", "encode", outputPath, err)
		}
		frameIdx++
	}

	if err := enc.Close(); err != nil {
		return services.Wrap(services.ErrExternalTool, "stabilize", "finalize encode", outputPath, err)
	}
	if frameIdx == 0 {
		return services.Wrap(services.ErrEmptyTrack, "stabilize", "decode", "no frames decoded from "+inputPath, nil)
	}

	e.logger.InfoContext(ctx, "stabilization pass complete",
		logging.String(logging.FieldInput, inputPath),
		logging.String(logging.FieldOutput, outputPath),
		logging.Int(logging.FieldFrames, frameIdx),
	)
	return nil
}
