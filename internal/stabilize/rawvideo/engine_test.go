package rawvideo_test

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"reframe/internal/services"
	"reframe/internal/services/ffmpeg"
	"reframe/internal/stabilize"
	"reframe/internal/stabilize/rawvideo"
	"reframe/internal/testsupport"
	"reframe/internal/track"
)

// stubToolchain writes ffmpeg/ffprobe scripts that serve a 4x2 two-frame
// clip. The ffmpeg stub acts as the decoder when its last argument is "-"
// (emitting raw frames) and as the encoder otherwise, exiting with
// encoderExit after draining stdin.
func stubToolchain(t *testing.T, encoderExit int) *ffmpeg.Client {
	t.Helper()
	dir := t.TempDir()

	ffmpegBody := `last=""
for arg in "$@"; do last="$arg"; done
if [ "$last" = "-" ]; then
  head -c 48 /dev/zero
  exit 0
fi
cat > /dev/null
`
	if encoderExit != 0 {
		ffmpegBody += "echo 'moov atom write failed' >&2\n"
	}
	ffmpegBody += "exit " + strconv.Itoa(encoderExit)

	probeBody := `echo '{"streams":[{"codec_type":"video","width":4,"height":2,"r_frame_rate":"30/1","nb_frames":"2"}],"format":{"duration":"0.066"}}'`

	ffmpegPath := filepath.Join(dir, "ffmpeg")
	ffprobePath := filepath.Join(dir, "ffprobe")
	testsupport.WriteScript(t, ffmpegPath, ffmpegBody)
	testsupport.WriteScript(t, ffprobePath, probeBody)
	return ffmpeg.NewClient(ffmpeg.WithBinary(ffmpegPath), ffmpeg.WithProbeBinary(ffprobePath))
}

func smallParams() stabilize.Parameters {
	return stabilize.Parameters{
		Zoom:         1.05,
		MaxShiftFrac: 0.25,
		TargetW:      2,
		TargetH:      2,
		BorderMode:   stabilize.BorderReflect101,
	}
}

// subjectTrack is one entry longer than the clip so the engine reconciles
// it down to the container-reported frame count.
func subjectTrack() track.Track {
	return track.Track{Xs: []float64{2, 2, 2}, Ys: []float64{1, 1, 1}}
}

func TestStabilizeAndCropSucceeds(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	testsupport.WriteFile(t, input, 64)

	engine := rawvideo.New(stubToolchain(t, 0), nil)
	err := engine.StabilizeAndCrop(context.Background(), input, filepath.Join(dir, "out.mp4"), subjectTrack(), smallParams())
	if err != nil {
		t.Fatalf("StabilizeAndCrop: %v", err)
	}
}

func TestStabilizeAndCropPropagatesEncoderFinalizeFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	testsupport.WriteFile(t, input, 64)

	engine := rawvideo.New(stubToolchain(t, 1), nil)
	err := engine.StabilizeAndCrop(context.Background(), input, filepath.Join(dir, "out.mp4"), subjectTrack(), smallParams())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "finalize encode") {
		t.Fatalf("expected finalize failure in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "moov atom write failed") {
		t.Fatalf("expected encoder diagnostics in error, got %v", err)
	}
}

func TestStabilizeAndCropRejectsEmptyTrack(t *testing.T) {
	engine := rawvideo.New(stubToolchain(t, 0), nil)
	err := engine.StabilizeAndCrop(context.Background(), "in.mp4", "out.mp4", track.Track{}, smallParams())
	if !errors.Is(err, services.ErrEmptyTrack) {
		t.Fatalf("expected empty track error, got %v", err)
	}
}
