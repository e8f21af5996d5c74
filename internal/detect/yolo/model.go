package yolo

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"gocv.io/x/gocv"

	"reframe/internal/detect"
	"reframe/internal/logging"
	"reframe/internal/services"
)

const (
	defaultInputSize = 640
	nmsThreshold     = 0.45
)

// Model wraps a YOLO pose or person-detection network loaded through the
// OpenCV DNN module. A Model may be shared across clips but must not be
// invoked concurrently without external synchronization.
type Model struct {
	net       gocv.Net
	inputSize int
	logger    *slog.Logger
}

// Load reads an ONNX model from modelPath and prepares it for the requested
// device. It fails with a model-unavailable error when the path is empty,
// missing, or not loadable, so callers can fall back to frame-wise mode.
func Load(modelPath, device string, logger *slog.Logger) (*Model, error) {
	if modelPath == "" {
		return nil, services.Wrap(services.ErrModelUnavailable, "detect", "load model",
			"no model path configured", nil)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, services.Wrap(services.ErrModelUnavailable, "detect", "load model", modelPath, err)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, services.Wrap(services.ErrModelUnavailable, "detect", "load model",
			"unreadable ONNX network at "+modelPath, nil)
	}

	if device == "cuda" {
		if err := net.SetPreferableBackend(gocv.NetBackendCUDA); err != nil {
			_ = net.Close()
			return nil, services.Wrap(services.ErrModelUnavailable, "detect", "configure cuda", modelPath, err)
		}
		if err := net.SetPreferableTarget(gocv.NetTargetCUDA); err != nil {
			_ = net.Close()
			return nil, services.Wrap(services.ErrModelUnavailable, "detect", "configure cuda", modelPath, err)
		}
	}

	m := &Model{
		net:       net,
		inputSize: defaultInputSize,
		logger:    logging.NewComponentLogger(logger, "yolo"),
	}
	m.logger.Info("model loaded",
		logging.String("model_path", modelPath),
		logging.String("device", device),
	)
	return m, nil
}

// Close releases the underlying network.
func (m *Model) Close() error {
	return m.net.Close()
}

// Infer runs the network over one BGR frame and decodes detections in
// source pixel coordinates. Keypoints are populated for pose models and
// empty for plain detection heads.
func (m *Model) Infer(frame gocv.Mat) ([]detect.Detection, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}
	blob := gocv.BlobFromImage(frame, 1.0/255.0,
		image.Pt(m.inputSize, m.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	defer out.Close()

	return m.decode(out, frame.Cols(), frame.Rows())
}

// decode flattens the [1, attrs, anchors] prediction tensor and converts
// each anchor into a detection, applying NMS over the candidate set.
func (m *Model) decode(out gocv.Mat, frameW, frameH int) ([]detect.Detection, error) {
	total := out.Total()
	if total == 0 {
		return nil, fmt.Errorf("empty network output")
	}

	dims := out.Size()
	if len(dims) != 3 || dims[0] != 1 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	attrs := dims[1]
	anchors := dims[2]
	if attrs < 5 {
		return nil, fmt.Errorf("output has %d attributes, want at least 5", attrs)
	}
	kpCount := 0
	if rest := attrs - 5; rest > 0 && rest%3 == 0 {
		kpCount = rest / 3
	}

	pred := out.Reshape(1, attrs)
	defer pred.Close()

	sx := float64(frameW) / float64(m.inputSize)
	sy := float64(frameH) / float64(m.inputSize)

	var boxes []image.Rectangle
	var scores []float32
	var candidates []detect.Detection

	for a := 0; a < anchors; a++ {
		conf := pred.GetFloatAt(4, a)
		if conf < 0.01 {
			continue
		}
		cx := float64(pred.GetFloatAt(0, a)) * sx
		cy := float64(pred.GetFloatAt(1, a)) * sy
		bw := float64(pred.GetFloatAt(2, a)) * sx
		bh := float64(pred.GetFloatAt(3, a)) * sy

		d := detect.Detection{
			Box: detect.Rect{
				X: cx - bw/2,
				Y: cy - bh/2,
				W: bw,
				H: bh,
			},
			Confidence: float64(conf),
		}
		if kpCount > 0 {
			d.Keypoints = make([]detect.Keypoint, kpCount)
			for k := 0; k < kpCount; k++ {
				base := 5 + k*3
				d.Keypoints[k] = detect.Keypoint{
					X:          float64(pred.GetFloatAt(base, a)) * sx,
					Y:          float64(pred.GetFloatAt(base+1, a)) * sy,
					Confidence: float64(pred.GetFloatAt(base+2, a)),
				}
			}
		}

		candidates = append(candidates, d)
		boxes = append(boxes, image.Rect(
			int(d.Box.X), int(d.Box.Y),
			int(d.Box.X+d.Box.W), int(d.Box.Y+d.Box.H),
		))
		scores = append(scores, conf)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, 0.01, nmsThreshold)
	kept := make([]detect.Detection, 0, len(keep))
	for _, idx := range keep {
		kept = append(kept, candidates[idx])
	}
	return kept, nil
}
