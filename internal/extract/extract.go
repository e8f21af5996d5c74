package extract

import (
	"context"
	"log/slog"
	"math"

	"gocv.io/x/gocv"

	"reframe/internal/detect"
	"reframe/internal/logging"
	"reframe/internal/services"
	"reframe/internal/track"
)

// Detector is the inference capability the extractor needs. The yolo
// package provides the production implementation; callers may substitute
// any model that satisfies it.
type Detector interface {
	Infer(frame gocv.Mat) ([]detect.Detection, error)
}

// MethodTrack and MethodFramewise select how subject identity is resolved
// across frames.
const (
	MethodTrack     = "track"
	MethodFramewise = "framewise"
)

// Options control one extraction pass.
type Options struct {
	Method          string
	Confidence      float64
	SmoothSigma     float64
	KeypointIndices []int
}

// Extractor converts a video into a per-frame subject-center track.
type Extractor struct {
	detector Detector
	logger   *slog.Logger
}

// New returns an extractor over the given detector. A nil detector is
// permitted for frame-wise mode and yields a center-fallback track; track
// mode rejects it.
func New(detector Detector, logger *slog.Logger) *Extractor {
	return &Extractor{
		detector: detector,
		logger:   logging.NewComponentLogger(logger, "extract"),
	}
}

// ExtractTrack decodes videoPath, derives a subject center per frame, and
// returns a finalized track with gaps interpolated and smoothing applied.
func (e *Extractor) ExtractTrack(ctx context.Context, videoPath string, opts Options) (track.Track, error) {
	if opts.Method == MethodTrack && e.detector == nil {
		return track.Track{}, services.Wrap(services.ErrModelUnavailable, "extract", "select method",
			"tracking requested but no model is loaded", nil)
	}

	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return track.Track{}, services.Wrap(services.ErrVideoOpen, "extract", "open capture", videoPath, err)
	}
	defer capture.Close()

	w := capture.Get(gocv.VideoCaptureFrameWidth)
	h := capture.Get(gocv.VideoCaptureFrameHeight)
	if w <= 0 || h <= 0 {
		return track.Track{}, services.Wrap(services.ErrVideoOpen, "extract", "open capture",
			"capture reports no frame dimensions for "+videoPath, nil)
	}

	var tracker *detect.Tracker
	if opts.Method == MethodTrack {
		tracker = detect.NewTracker(0.3, 10)
	}

	frame := gocv.NewMat()
	defer frame.Close()

	raw := track.Track{}
	frames := 0
	for capture.Read(&frame) {
		if frame.Empty() {
			continue
		}
		frames++

		center, ok := e.frameCenter(ctx, &frame, tracker, opts)
		if ok {
			raw.Append(center.X, center.Y)
		} else {
			raw.Append(math.NaN(), math.NaN())
		}
	}
	if frames == 0 {
		return track.Track{}, services.Wrap(services.ErrVideoOpen, "extract", "decode",
			"no frames decoded from "+videoPath, nil)
	}

	final, err := raw.Finalize(w/2, h/2, opts.SmoothSigma)
	if err != nil {
		return track.Track{}, services.Wrap(services.ErrEmptyTrack, "extract", "finalize track", videoPath, err)
	}

	e.logger.InfoContext(ctx, "track extracted",
		logging.String(logging.FieldInput, videoPath),
		logging.String(logging.FieldMethod, opts.Method),
		logging.Int(logging.FieldFrames, frames),
	)
	return final, nil
}

// frameCenter resolves the subject center for one frame under the active
// method. A false return marks the frame as a detection gap.
func (e *Extractor) frameCenter(ctx context.Context, frame *gocv.Mat, tracker *detect.Tracker, opts Options) (detect.Point, bool) {
	if e.detector == nil {
		return detect.Point{}, false
	}
	detections, err := e.detector.Infer(*frame)
	if err != nil {
		e.logger.WarnContext(ctx, "inference failed, treating frame as undetected", logging.Error(err))
		return detect.Point{}, false
	}

	if tracker != nil {
		accepted := detections[:0:0]
		for _, d := range detections {
			if d.Confidence >= opts.Confidence {
				accepted = append(accepted, d)
			}
		}
		tracker.Update(accepted)
		primary, ok := tracker.Primary()
		if !ok {
			return detect.Point{}, false
		}
		return detect.CenterOf(primary, opts.KeypointIndices, opts.Confidence), true
	}

	return detect.SubjectCenter(detections, opts.KeypointIndices, opts.Confidence)
}
