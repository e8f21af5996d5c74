package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reframe/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		methodFlag string
		engineFlag string
		audioFlag  string
		zoomFlag   float64
		yBiasFlag  float64
		maxShift   float64
		sigmaFlag  float64
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "process <input> <output>",
		Short: "Stabilize and crop one clip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.buildPipeline(engineFlag)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.client.Available(cmd.Context()); err != nil {
				return err
			}

			params := p.params()
			if cmd.Flags().Changed("zoom") {
				params.Zoom = zoomFlag
			}
			if cmd.Flags().Changed("y-bias") {
				params.YBias = yBiasFlag
			}
			if cmd.Flags().Changed("max-shift") {
				params.MaxShiftFrac = maxShift
			}
			opts := p.extractionOptions()
			if methodFlag != "" {
				opts.Method = methodFlag
			}
			if cmd.Flags().Changed("sigma") {
				opts.SmoothSigma = sigmaFlag
			}

			job := workflow.NewClipJob(args[0], args[1])
			job.ExtractionMethod = opts.Method
			if audioFlag != "" {
				job.AudioSourcePath = audioFlag
				job.ReattachAudio = true
			} else if p.cfg.Audio.Reattach {
				job.AudioSourcePath = args[0]
				job.ReattachAudio = true
			}

			runner, err := p.newRunner(params, opts)
			if err != nil {
				return err
			}
			result := runner.Run(cmd.Context(), job)

			if jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				printResult(cmd, result)
			}
			if result.Status != workflow.StatusDone {
				return fmt.Errorf("clip job failed: %s", result.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&methodFlag, "method", "", "Extraction method (track or framewise)")
	cmd.Flags().StringVar(&engineFlag, "engine", "", "Stabilization engine (opencv or rawvideo)")
	cmd.Flags().StringVar(&audioFlag, "audio", "", "Audio source to remux onto the output")
	cmd.Flags().Float64Var(&zoomFlag, "zoom", 0, "Zoom factor (>= 1.0)")
	cmd.Flags().Float64Var(&yBiasFlag, "y-bias", 0, "Vertical lock-on bias as a fraction of frame height")
	cmd.Flags().Float64Var(&maxShift, "max-shift", 0, "Maximum translation as a fraction of min(width, height)")
	cmd.Flags().Float64Var(&sigmaFlag, "sigma", 0, "Gaussian smoothing sigma (0 disables)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}

func printResult(cmd *cobra.Command, result workflow.Result) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if result.Status == workflow.StatusDone {
		line := fmt.Sprintf("Done: %s", result.OutputPath)
		if result.FallbackUsed {
			line += " (frame-wise fallback used)"
		}
		fmt.Fprintln(out, colored(line, ansiGreen, colorize))
		return
	}
	fmt.Fprintln(out, colored("Failed: "+result.Message, ansiRed, colorize))
}
