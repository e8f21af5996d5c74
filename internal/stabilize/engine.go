package stabilize

import (
	"context"

	"reframe/internal/services"
	"reframe/internal/track"
)

// Engine renders a camera-follow pass over one clip. Implementations
// differ only in how frames are decoded, warped, and encoded.
type Engine interface {
	Name() string
	StabilizeAndCrop(ctx context.Context, inputPath, outputPath string, t track.Track, p Parameters) error
}

// CheckTrack rejects tracks with no usable frames before an engine opens
// any decoder or encoder handles.
func CheckTrack(t track.Track) error {
	if t.Len() == 0 {
		return services.Wrap(services.ErrEmptyTrack, "stabilize", "check_track",
			"track has no usable frames after reconciliation", nil)
	}
	return t.Validate()
}
