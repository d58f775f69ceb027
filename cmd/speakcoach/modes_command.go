package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"speakcoach/internal/feedback"
)

func newModesCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "modes",
		Short:       "List analysis modes and their thresholds",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := feedback.Profiles()
			if jsonOutput {
				return writeJSON(cmd, profiles)
			}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				name := p.Mode
				if name == feedback.DefaultMode {
					name += " (default)"
				}
				rows = append(rows, []string{
					name,
					fmt.Sprintf("%d-%d", p.WPMMin, p.WPMMax),
					fmt.Sprintf("%d", p.MaxPauses),
					fmt.Sprintf("%d", p.MaxFillers),
					fmt.Sprintf("%d", p.MaxBlunders),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Mode", "Pace (wpm)", "Max pauses", "Max fillers", "Max blunders"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
				terminalWidth(out),
			))
			fmt.Fprintf(out, "Pace at or above %d wpm is flagged as risky in every mode.\n", feedback.RiskyWPM)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
