package opencv

import (
	"context"
	"image"
	"image/color"
	"log/slog"

	"gocv.io/x/gocv"

	"reframe/internal/logging"
	"reframe/internal/media/ffprobe"
	"reframe/internal/services"
	"reframe/internal/stabilize"
	"reframe/internal/track"
)

// Engine renders the camera-follow pass with OpenCV decode, warp, and
// encode. It is the faster backend when the host has OpenCV installed.
type Engine struct {
	logger *slog.Logger
}

// New returns an OpenCV-backed stabilization engine.
func New(logger *slog.Logger) *Engine {
	return &Engine{logger: logging.NewComponentLogger(logger, "stabilize-opencv")}
}

// Name identifies the engine in configuration and logs.
func (e *Engine) Name() string { return "opencv" }

// StabilizeAndCrop reads inputPath frame by frame, applies the planned
// zoom and clamped translation as two sequential affine warps, center-crops
// to the target aspect ratio, resizes, and writes outputPath without audio.
func (e *Engine) StabilizeAndCrop(ctx context.Context, inputPath, outputPath string, t track.Track, p stabilize.Parameters) error {
	if err := stabilize.CheckTrack(t); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "stabilize", "parameters", err.Error(), nil)
	}

	capture, err := gocv.VideoCaptureFile(inputPath)
	if err != nil {
		return services.Wrap(services.ErrVideoOpen, "stabilize", "open capture", inputPath, err)
	}
	defer capture.Close()

	w := int(capture.Get(gocv.VideoCaptureFrameWidth))
	h := int(capture.Get(gocv.VideoCaptureFrameHeight))
	if w <= 0 || h <= 0 {
		return services.Wrap(services.ErrVideoOpen, "stabilize", "open capture",
			"capture reports no frame dimensions for "+inputPath, nil)
	}
	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = ffprobe.FallbackFrameRate
	}

	if n := int(capture.Get(gocv.VideoCaptureFrameCount)); n > 0 {
		t = t.Reconcile(n)
	}

	plan := stabilize.Plan(t, w, h, p)
	crop := stabilize.Crop(w, h, p)
	border := borderType(p.BorderMode)

	writer, err := gocv.VideoWriterFile(outputPath, fourccFor(p.VideoCodec), fps, p.TargetW, p.TargetH, true)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "stabilize", "open writer", outputPath, err)
	}

	cx := float64(w) / 2
	cy := float64(h) / 2
	zoomMat := affineMat(p.Zoom, 0, cx*(1-p.Zoom), 0, p.Zoom, cy*(1-p.Zoom))
	defer zoomMat.Close()
	shiftMat := affineMat(1, 0, 0, 0, 1, 0)
	defer shiftMat.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	warped := gocv.NewMat()
	defer warped.Close()
	shifted := gocv.NewMat()
	defer shifted.Close()
	resized := gocv.NewMat()
	defer resized.Close()

	size := image.Pt(w, h)
	written := 0
	for capture.Read(&frame) {
		if frame.Empty() {
			// Undecodable frames are skipped, not substituted.
			continue
		}
		idx := written
		if idx >= len(plan) {
			idx = len(plan) - 1
		}
		ft := plan[idx]

		gocv.WarpAffineWithParams(frame, &warped, zoomMat, size, gocv.InterpolationLinear, border, color.RGBA{})
		shiftMat.SetDoubleAt(0, 2, ft.TX)
		shiftMat.SetDoubleAt(1, 2, ft.TY)
		gocv.WarpAffineWithParams(warped, &shifted, shiftMat, size, gocv.InterpolationLinear, border, color.RGBA{})

		region := shifted.Region(image.Rect(crop.X, crop.Y, crop.X+crop.W, crop.Y+crop.H))
		gocv.Resize(region, &resized, image.Pt(p.TargetW, p.TargetH), 0, 0, gocv.InterpolationLinear)
		region.Close()

		if err := writer.Write(resized); err != nil {
			_ = writer.Close()
			return services.Wrap(services.ErrExternalTool, "stabilize", "write frame", outputPath, err)
		}
		written++
	}

	if err := writer.Close(); err != nil {
		return services.Wrap(services.ErrExternalTool, "stabilize", "finalize writer", outputPath, err)
	}
	if written == 0 {
		return services.Wrap(services.ErrEmptyTrack, "stabilize", "decode", "no frames decoded from "+inputPath, nil)
	}

	e.logger.InfoContext(ctx, "stabilization pass complete",
		logging.String(logging.FieldInput, inputPath),
		logging.String(logging.FieldOutput, outputPath),
		logging.Int(logging.FieldFrames, written),
	)
	return nil
}

func borderType(m stabilize.BorderMode) gocv.BorderType {
	switch m {
	case stabilize.BorderReflect:
		return gocv.BorderReflect
	case stabilize.BorderReplicate:
		return gocv.BorderReplicate
	case stabilize.BorderWrap:
		return gocv.BorderWrap
	case stabilize.BorderConstant:
		return gocv.BorderConstant
	default:
		return gocv.BorderReflect101
	}
}

// fourccFor maps the configured encoder name onto a container fourcc the
// OpenCV writer understands.
func fourccFor(codec string) string {
	switch codec {
	case "libx264", "h264", "avc1":
		return "avc1"
	case "libx265", "hevc":
		return "hvc1"
	default:
		return "mp4v"
	}
}

func affineMat(a, b, c, d, e, f float64) gocv.Mat {
	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	m.SetDoubleAt(0, 0, a)
	m.SetDoubleAt(0, 1, b)
	m.SetDoubleAt(0, 2, c)
	m.SetDoubleAt(1, 0, d)
	m.SetDoubleAt(1, 1, e)
	m.SetDoubleAt(1, 2, f)
	return m
}
