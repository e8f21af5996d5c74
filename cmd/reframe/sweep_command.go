package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"reframe/internal/gridrun"
	"reframe/internal/workflow"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var (
		outDirFlag  string
		zoomsFlag   string
		yBiasesFlag string
		shiftsFlag  string
		sigmasFlag  string
		workersFlag int
		resultsFlag string
		engineFlag  string
		methodFlag  string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "sweep <input>",
		Short: "Render a grid of stabilization parameter combinations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.buildPipeline(engineFlag)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.client.Available(cmd.Context()); err != nil {
				return err
			}

			grid := gridrun.Grid{}
			if grid.Zooms, err = parseFloatList(zoomsFlag); err != nil {
				return fmt.Errorf("--zooms: %w", err)
			}
			if grid.YBiases, err = parseFloatList(yBiasesFlag); err != nil {
				return fmt.Errorf("--y-biases: %w", err)
			}
			if grid.MaxShiftFracs, err = parseFloatList(shiftsFlag); err != nil {
				return fmt.Errorf("--max-shifts: %w", err)
			}
			if grid.SmoothSigmas, err = parseFloatList(sigmasFlag); err != nil {
				return fmt.Errorf("--sigmas: %w", err)
			}

			baseOpts := p.extractionOptions()
			if methodFlag != "" {
				baseOpts.Method = methodFlag
			}
			combos := grid.Combinations(p.params(), baseOpts.SmoothSigma)

			// One loaded model serves every worker; serialize inference.
			shared := gridrun.NewSyncExtractor(p.extractor)

			process := func(runCtx context.Context, combo gridrun.Combo, outputPath string) workflow.Result {
				opts := baseOpts
				opts.SmoothSigma = combo.SmoothSigma
				runner, err := workflow.NewRunner(workflow.RunnerConfig{
					Extractor:  shared,
					Engine:     p.engine,
					Remuxer:    p.client,
					Params:     combo.Params,
					Extraction: opts,
					AudioCodec: p.cfg.Audio.Codec,
					Logger:     p.logger,
				})
				if err != nil {
					return workflow.Result{Status: workflow.StatusFailed, Message: err.Error()}
				}
				job := workflow.NewClipJob(args[0], outputPath)
				job.ExtractionMethod = opts.Method
				return runner.Run(runCtx, job)
			}

			opts := []gridrun.Option{gridrun.WithWorkers(workersFlag)}
			if resultsFlag != "" {
				opts = append(opts, gridrun.WithResultsFile(resultsFlag))
			}
			if jsonOutput {
				opts = append(opts, gridrun.WithQuiet())
			}
			runner := gridrun.NewRunner(p.logger, opts...)

			results, err := runner.Run(cmd.Context(), args[0], outDirFlag, combos, process)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, results)
			}
			printSweepTable(cmd, results)
			failed := 0
			for _, r := range results {
				if r.Status != string(workflow.StatusDone) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sweep points failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDirFlag, "out-dir", "o", "sweep", "Directory for rendered outputs")
	cmd.Flags().StringVar(&zoomsFlag, "zooms", "", "Comma-separated zoom values")
	cmd.Flags().StringVar(&yBiasesFlag, "y-biases", "", "Comma-separated vertical bias values")
	cmd.Flags().StringVar(&shiftsFlag, "max-shifts", "", "Comma-separated max shift fractions")
	cmd.Flags().StringVar(&sigmasFlag, "sigmas", "", "Comma-separated smoothing sigma values")
	cmd.Flags().IntVar(&workersFlag, "workers", 2, "Concurrent sweep workers")
	cmd.Flags().StringVar(&resultsFlag, "results", "", "Shared JSON results file")
	cmd.Flags().StringVar(&engineFlag, "engine", "", "Stabilization engine (opencv or rawvideo)")
	cmd.Flags().StringVar(&methodFlag, "method", "", "Extraction method (track or framewise)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}

func printSweepTable(cmd *cobra.Command, results []gridrun.JobResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Label,
			r.Status,
			fmt.Sprintf("%.1fs", r.Seconds),
			r.OutputPath,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Combo", "Status", "Time", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
}
