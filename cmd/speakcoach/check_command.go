package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"speakcoach/internal/deps"
	"speakcoach/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			failed := preflight.Failed(results)
			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				p := newPalette(out, shouldColorize(out))
				fmt.Fprintln(out, sectionHeader(p, "Preflight"))
				for _, r := range results {
					kind := statusOK
					switch {
					case !r.Passed && r.Optional:
						kind = statusWarn
					case !r.Passed:
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(p, r.Name, kind, r.Detail))
				}
				if version := deps.Version(cmd.Context(), cfg.FFmpegBinary()); version != "" {
					fmt.Fprintln(out, renderStatusLine(p, "FFmpeg version", statusInfo, version))
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
