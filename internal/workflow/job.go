package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Status is the terminal state of one clip job.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// ClipJob is the unit of work: one source video region rendered to one
// output file. Jobs are built by callers and never persisted.
type ClipJob struct {
	ID               string
	InputPath        string
	OutputPath       string
	AudioSourcePath  string
	ExtractionMethod string
	ReattachAudio    bool
}

// NewClipJob assigns a fresh job ID for the given input and output paths.
func NewClipJob(inputPath, outputPath string) ClipJob {
	return ClipJob{
		ID:         uuid.New().String(),
		InputPath:  inputPath,
		OutputPath: outputPath,
	}
}

// Validate checks the invariants a job must satisfy before any work starts.
func (j ClipJob) Validate() error {
	if j.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if _, err := os.Stat(j.InputPath); err != nil {
		return fmt.Errorf("input %s: %w", j.InputPath, err)
	}
	if j.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	dir := filepath.Dir(j.OutputPath)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output parent %s is not a directory", dir)
	}
	return nil
}

// tempOutputPath derives a per-job intermediate path in the same directory
// as the final output so the last rename never crosses filesystems.
func (j ClipJob) tempOutputPath() string {
	dir := filepath.Dir(j.OutputPath)
	ext := filepath.Ext(j.OutputPath)
	if ext == "" {
		ext = ".mp4"
	}
	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	return filepath.Join(dir, fmt.Sprintf(".reframe-%s%s", id, ext))
}

// remuxOutputPath derives the temp path the remuxed (video+audio) file is
// written to before the final rename, so a remux that dies mid-stream never
// leaves a partial file at the output path.
func (j ClipJob) remuxOutputPath() string {
	dir := filepath.Dir(j.OutputPath)
	ext := filepath.Ext(j.OutputPath)
	if ext == "" {
		ext = ".mp4"
	}
	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	return filepath.Join(dir, fmt.Sprintf(".reframe-%s-mux%s", id, ext))
}

// Result is what callers receive for one job: either a success naming the
// output file, or a failure whose message names the stage that failed.
type Result struct {
	Status     Status
	Message    string
	OutputPath string
	// FallbackUsed reports that tracking extraction was unavailable and the
	// frame-wise method produced the track instead.
	FallbackUsed bool
}
