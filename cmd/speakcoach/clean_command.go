package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"speakcoach/internal/workspace"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete all recordings and diagnostic logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !assumeYes {
				fmt.Fprintf(out, "Delete everything in %s and %s? [y/N] ", cfg.Paths.RecordingsDir, cfg.Paths.LogDir)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			diag, err := ctx.openDiagnostics(cmd)
			if err != nil {
				return err
			}
			defer ctx.closeDiagnostics()
			diag.Logger.Info("privacy cleanup requested")

			summary, err := workspace.New(cfg, diag.Logger).Clean(cmd.Context(), diag)
			if errors.Is(err, workspace.ErrBusy) {
				return errors.New("an analysis is still running; try again when it finishes")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d file(s), %s\n", summary.FilesRemoved, humanBytes(summary.BytesRemoved))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
