package config

const (
	defaultTmpDir           = "~/.local/share/reframe/tmp"
	defaultLogDir           = "~/.local/share/reframe/logs"
	defaultModelPath        = "yolov8n-pose.onnx"
	defaultDevice           = "auto"
	defaultConfidence       = 0.25
	defaultExtractionMethod = "track"
	defaultSmoothSigma      = 5.0
	defaultEngine           = "opencv"
	defaultZoom             = 1.05
	defaultYBias            = 0.10
	defaultMaxShiftFrac     = 0.25
	defaultTargetW          = 1080
	defaultTargetH          = 1920
	defaultBorderMode       = "reflect101"
	defaultVideoCodec       = "libx264"
	defaultAudioCodec       = "aac"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// defaultKeypoints selects the pose keypoints averaged into the subject
// center: nose plus both wrists (COCO pose indices).
var defaultKeypoints = []int{0, 9, 10}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TmpDir: defaultTmpDir,
			LogDir: defaultLogDir,
		},
		Detection: Detection{
			ModelPath:  defaultModelPath,
			Device:     defaultDevice,
			Confidence: defaultConfidence,
			Keypoints:  append([]int(nil), defaultKeypoints...),
		},
		Extraction: Extraction{
			Method:      defaultExtractionMethod,
			SmoothSigma: defaultSmoothSigma,
		},
		Stabilization: Stabilization{
			Engine:       defaultEngine,
			Zoom:         defaultZoom,
			YBias:        defaultYBias,
			MaxShiftFrac: defaultMaxShiftFrac,
			TargetW:      defaultTargetW,
			TargetH:      defaultTargetH,
			BorderMode:   defaultBorderMode,
			VideoCodec:   defaultVideoCodec,
		},
		Audio: Audio{
			Reattach: false,
			Codec:    defaultAudioCodec,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
