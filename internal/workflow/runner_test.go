package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reframe/internal/extract"
	"reframe/internal/services"
	"reframe/internal/stabilize"
	"reframe/internal/track"
)

type fakeExtractor struct {
	calls []string
	fn    func(method string) (track.Track, error)
}

func (f *fakeExtractor) ExtractTrack(ctx context.Context, videoPath string, opts extract.Options) (track.Track, error) {
	f.calls = append(f.calls, opts.Method)
	return f.fn(opts.Method)
}

type fakeEngine struct {
	err    error
	writes bool
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) StabilizeAndCrop(ctx context.Context, inputPath, outputPath string, t track.Track, p stabilize.Parameters) error {
	if f.err != nil {
		return f.err
	}
	if f.writes {
		return os.WriteFile(outputPath, []byte("video"), 0o644)
	}
	return nil
}

type fakeRemuxer struct {
	err     error
	partial bool
	calls   int
}

func (f *fakeRemuxer) Remux(ctx context.Context, videoNoAudio, audioSource, outPath, audioCodec string) error {
	f.calls++
	if f.err != nil {
		if f.partial {
			// ffmpeg -y creates the output before it fails.
			_ = os.WriteFile(outPath, []byte("trunc"), 0o644)
		}
		return f.err
	}
	return os.WriteFile(outPath, []byte("video+audio"), 0o644)
}

func goodTrack() track.Track {
	return track.Track{Xs: []float64{1, 2, 3}, Ys: []float64{4, 5, 6}}
}

func newJob(t *testing.T) ClipJob {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("source"), 0o644); err != nil {
		t.Fatal(err)
	}
	job := NewClipJob(input, filepath.Join(dir, "out.mp4"))
	return job
}

func newRunner(t *testing.T, ex Extractor, en stabilize.Engine, rm Remuxer) *Runner {
	t.Helper()
	r, err := NewRunner(RunnerConfig{
		Extractor:  ex,
		Engine:     en,
		Remuxer:    rm,
		Params:     stabilize.Parameters{Zoom: 1.05, MaxShiftFrac: 0.25, TargetW: 1080, TargetH: 1920, BorderMode: stabilize.BorderReflect101},
		Extraction: extract.Options{Method: extract.MethodTrack, Confidence: 0.5},
		AudioCodec: "aac",
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRunHappyPathWithoutAudio(t *testing.T) {
	ex := &fakeExtractor{fn: func(string) (track.Track, error) { return goodTrack(), nil }}
	r := newRunner(t, ex, &fakeEngine{writes: true}, &fakeRemuxer{})
	job := newJob(t)

	res := r.Run(context.Background(), job)
	if res.Status != StatusDone {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.OutputPath != job.OutputPath {
		t.Fatalf("unexpected output path %q", res.OutputPath)
	}
	if _, err := os.Stat(job.OutputPath); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if res.FallbackUsed {
		t.Fatal("no fallback expected")
	}
}

func TestRunFallsBackToFramewiseOnce(t *testing.T) {
	ex := &fakeExtractor{fn: func(method string) (track.Track, error) {
		if method == extract.MethodTrack {
			return track.Track{}, services.Wrap(services.ErrModelUnavailable, "extract", "load", "no model", nil)
		}
		return goodTrack(), nil
	}}
	r := newRunner(t, ex, &fakeEngine{writes: true}, &fakeRemuxer{})
	job := newJob(t)

	res := r.Run(context.Background(), job)
	if res.Status != StatusDone || !res.FallbackUsed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(ex.calls) != 2 || ex.calls[0] != extract.MethodTrack || ex.calls[1] != extract.MethodFramewise {
		t.Fatalf("unexpected extraction attempts: %v", ex.calls)
	}
}

func TestRunFailsNamingBothMethodsWhenFallbackAlsoFails(t *testing.T) {
	ex := &fakeExtractor{fn: func(method string) (track.Track, error) {
		if method == extract.MethodTrack {
			return track.Track{}, services.Wrap(services.ErrModelUnavailable, "extract", "load", "no model", nil)
		}
		return track.Track{}, services.Wrap(services.ErrVideoOpen, "extract", "decode", "bad input", nil)
	}}
	r := newRunner(t, ex, &fakeEngine{writes: true}, &fakeRemuxer{})
	job := newJob(t)

	res := r.Run(context.Background(), job)
	if res.Status != StatusFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Message, "track") || !strings.Contains(res.Message, "framewise") {
		t.Fatalf("message should name both methods: %q", res.Message)
	}
	if len(ex.calls) != 2 {
		t.Fatalf("expected exactly one fallback attempt, got %v", ex.calls)
	}
}

func TestRunDoesNotFallBackOnOtherExtractionErrors(t *testing.T) {
	ex := &fakeExtractor{fn: func(string) (track.Track, error) {
		return track.Track{}, services.Wrap(services.ErrVideoOpen, "extract", "open", "corrupt", nil)
	}}
	r := newRunner(t, ex, &fakeEngine{writes: true}, &fakeRemuxer{})
	job := newJob(t)

	res := r.Run(context.Background(), job)
	if res.Status != StatusFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(ex.calls) != 1 {
		t.Fatalf("no fallback expected for decode failures: %v", ex.calls)
	}
	if !strings.Contains(res.Message, "extraction") {
		t.Fatalf("message should name the failed stage: %q", res.Message)
	}
}

func TestRunStabilizationFailureLeavesNoOutput(t *testing.T) {
	ex := &fakeExtractor{fn: func(string) (track.Track, error) { return goodTrack(), nil }}
	engineErr := services.Wrap(services.ErrEmptyTrack, "stabilize", "check", "empty", nil)
	r := newRunner(t, ex, &fakeEngine{err: engineErr}, &fakeRemuxer{})
	job := newJob(t)

	res := r.Run(context.Background(), job)
	if res.Status != StatusFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(job.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("output path should not exist after failure: %v", err)
	}
	if !strings.Contains(res.Message, "stabilization") {
		t.Fatalf("message should name the failed stage: %q", res.Message)
	}
}

func TestRunRemuxFailurePreservesIntermediate(t *testing.T) {
	ex := &fakeExtractor{fn: func(string) (track.Track, error) { return goodTrack(), nil }}
	rm := &fakeRemuxer{err: services.Wrap(services.ErrRemux, "remux", "run", "no audio stream", nil)}
	r := newRunner(t, ex, &fakeEngine{writes: true}, rm)
	job := newJob(t)
	job.ReattachAudio = true
	job.AudioSourcePath = filepath.Join(t.TempDir(), "missing.m4a")

	res := r.Run(context.Background(), job)
	if res.Status != StatusFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(job.OutputPath); !os.IsNotExist(err) {
		t.Fatal("final output should not exist after remux failure")
	}
	temp := job.tempOutputPath()
	if _, err := os.Stat(temp); err != nil {
		t.Fatalf("audio-less intermediate should be preserved: %v", err)
	}
	if !strings.Contains(res.Message, temp) {
		t.Fatalf("message should name the preserved intermediate: %q", res.Message)
	}
}

func TestRunRemuxFailureLeavesNoPartialOutput(t *testing.T) {
	ex := &fakeExtractor{fn: func(string) (track.Track, error) { return goodTrack(), nil }}
	rm := &fakeRemuxer{
		err:     services.Wrap(services.ErrRemux, "remux", "run", "incompatible audio stream", nil),
		partial: true,
	}
	r := newRunner(t, ex, &fakeEngine{writes: true}, rm)
	job := newJob(t)
	job.ReattachAudio = true
	job.AudioSourcePath = job.InputPath

	res := r.Run(context.Background(), job)
	if res.Status != StatusFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(job.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("truncated remux product must not reach the output path: %v", err)
	}
	if _, err := os.Stat(job.remuxOutputPath()); !os.IsNotExist(err) {
		t.Fatal("failed remux product should be cleaned up")
	}
	if _, err := os.Stat(job.tempOutputPath()); err != nil {
		t.Fatalf("audio-less intermediate should be preserved: %v", err)
	}
}

func TestRunRemuxSuccessRemovesIntermediate(t *testing.T) {
	ex := &fakeExtractor{fn: func(string) (track.Track, error) { return goodTrack(), nil }}
	rm := &fakeRemuxer{}
	r := newRunner(t, ex, &fakeEngine{writes: true}, rm)
	job := newJob(t)
	job.ReattachAudio = true
	job.AudioSourcePath = job.InputPath

	res := r.Run(context.Background(), job)
	if res.Status != StatusDone {
		t.Fatalf("unexpected result: %+v", res)
	}
	if rm.calls != 1 {
		t.Fatalf("expected one remux call, got %d", rm.calls)
	}
	if _, err := os.Stat(job.tempOutputPath()); !os.IsNotExist(err) {
		t.Fatal("intermediate should be removed after successful remux")
	}
	if _, err := os.Stat(job.OutputPath); err != nil {
		t.Fatalf("final output missing: %v", err)
	}
}

func TestRunRejectsMissingInput(t *testing.T) {
	ex := &fakeExtractor{fn: func(string) (track.Track, error) { return goodTrack(), nil }}
	r := newRunner(t, ex, &fakeEngine{writes: true}, &fakeRemuxer{})
	job := NewClipJob(filepath.Join(t.TempDir(), "nope.mp4"), filepath.Join(t.TempDir(), "out.mp4"))

	res := r.Run(context.Background(), job)
	if res.Status != StatusFailed || len(ex.calls) != 0 {
		t.Fatalf("expected validation failure before extraction: %+v calls=%v", res, ex.calls)
	}
}

func TestNewRunnerRequiresCollaborators(t *testing.T) {
	if _, err := NewRunner(RunnerConfig{Engine: &fakeEngine{}}); err == nil {
		t.Fatal("expected error without extractor")
	}
	if _, err := NewRunner(RunnerConfig{Extractor: &fakeExtractor{}}); err == nil {
		t.Fatal("expected error without engine")
	}
}
