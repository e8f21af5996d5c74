package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reframe/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file's streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ffmpegClient()
			if err != nil {
				return err
			}
			result, err := ffprobe.Inspect(cmd.Context(), client.ProbeBinary(), args[0])
			if err != nil {
				return fmt.Errorf("probe %s: %w", args[0], err)
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}

			rows := make([][]string, 0, len(result.Streams))
			for _, s := range result.Streams {
				detail := ""
				switch s.CodecType {
				case "video":
					detail = fmt.Sprintf("%dx%d @ %.3g fps", s.Width, s.Height, s.FrameRate())
				case "audio":
					detail = fmt.Sprintf("%s Hz, %d ch", s.SampleRate, s.Channels)
				}
				rows = append(rows, []string{
					strconv.Itoa(s.Index),
					s.CodecType,
					s.CodecName,
					detail,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Type", "Codec", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Container: %s, %.2fs, audio: %s\n",
				result.Format.FormatName, result.DurationSeconds(), yesNo(result.HasAudio()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit raw probe data as JSON")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
