package gridrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"reframe/internal/logging"
	"reframe/internal/workflow"
)

// ProcessFunc renders one sweep point to outputPath and reports the
// outcome. Implementations are invoked concurrently and must be safe to
// call from multiple goroutines.
type ProcessFunc func(ctx context.Context, combo Combo, outputPath string) workflow.Result

// Runner executes a parameter sweep over one input clip with a bounded
// worker pool.
type Runner struct {
	workers     int
	resultsPath string
	quiet       bool
	logger      *slog.Logger
}

// Option configures a sweep runner.
type Option func(*Runner)

// WithWorkers bounds the number of concurrent sweep points.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithResultsFile appends each outcome to the shared JSON results file.
func WithResultsFile(path string) Option {
	return func(r *Runner) { r.resultsPath = path }
}

// WithQuiet suppresses the progress bar.
func WithQuiet() Option {
	return func(r *Runner) { r.quiet = true }
}

// NewRunner builds a sweep runner. By default it uses two workers and no
// results file.
func NewRunner(logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		workers: 2,
		logger:  logging.NewComponentLogger(logger, "gridrun"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run renders every combo into outputDir, naming files after the input
// stem and the combo label. Results come back in combo order.
func (r *Runner) Run(ctx context.Context, inputPath, outputDir string, combos []Combo, process ProcessFunc) ([]JobResult, error) {
	if len(combos) == 0 {
		return nil, fmt.Errorf("empty parameter grid")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	stem := strippedStem(inputPath)

	bar := r.newBar(len(combos))
	results := make([]JobResult, len(combos))

	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	for i, combo := range combos {
		wg.Add(1)
		go func(i int, combo Combo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outputPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.mp4", stem, combo.Label))
			started := time.Now()
			res := process(ctx, combo, outputPath)

			jr := JobResult{
				Label:      combo.Label,
				OutputPath: outputPath,
				Status:     string(res.Status),
				Fallback:   res.FallbackUsed,
				Seconds:    time.Since(started).Seconds(),
			}
			if res.Status != workflow.StatusDone {
				jr.Message = res.Message
			}
			results[i] = jr

			if r.resultsPath != "" {
				if err := AppendResult(r.resultsPath, jr); err != nil {
					r.logger.Warn("failed to record sweep result",
						logging.String("label", combo.Label), logging.Error(err))
				}
			}
			_ = bar.Add(1)
		}(i, combo)
	}
	wg.Wait()
	_ = bar.Finish()

	return results, nil
}

func (r *Runner) newBar(total int) *progressbar.ProgressBar {
	if r.quiet {
		return progressbar.NewOptions(total, progressbar.OptionSetWriter(io.Discard))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("sweeping"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
}

func strippedStem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
