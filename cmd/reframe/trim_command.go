package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reframe/internal/timecode"
)

func newTrimCommand(ctx *commandContext) *cobra.Command {
	var (
		startFlag string
		endFlag   string
		reencode  bool
	)

	cmd := &cobra.Command{
		Use:   "trim <input> <output>",
		Short: "Cut a clip between two timecodes",
		Long: "Cut a clip between two timecodes. Timecodes accept HH:MM:SS[.mmm],\n" +
			"MM:SS, or plain seconds.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := timecode.Parse(startFlag)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			end, err := timecode.Parse(endFlag)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			client, err := ctx.ffmpegClient()
			if err != nil {
				return err
			}
			if err := client.Trim(cmd.Context(), args[0], start, end, args[1], reencode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s to %s)\n",
				args[1], timecode.Format(start), timecode.Format(end))
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "Start timecode")
	cmd.Flags().StringVar(&endFlag, "end", "", "End timecode")
	cmd.Flags().BoolVar(&reencode, "reencode", false, "Re-encode instead of stream copy")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
