package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var (
		partsFlag    int
		templateFlag string
		reencode     bool
	)

	cmd := &cobra.Command{
		Use:   "split <input>",
		Short: "Split a clip into equal-length parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if partsFlag < 2 {
				return fmt.Errorf("--parts must be at least 2")
			}
			client, err := ctx.ffmpegClient()
			if err != nil {
				return err
			}
			outputs, err := client.SplitEqual(cmd.Context(), args[0], templateFlag, partsFlag, reencode)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range outputs {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&partsFlag, "parts", "n", 2, "Number of equal parts")
	cmd.Flags().StringVar(&templateFlag, "template", "part_%02d.mp4", "Output filename template with one %d")
	cmd.Flags().BoolVar(&reencode, "reencode", false, "Re-encode instead of stream copy")
	return cmd
}
