package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"speakcoach/internal/config"
	"speakcoach/internal/pipeline"
	"speakcoach/internal/preflight"
	"speakcoach/internal/services"
	"speakcoach/internal/workspace"
)

// processorFactory builds the pipeline for analyze. Tests replace it.
var processorFactory = pipeline.NewProcessor

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string
	var modeFlag string
	var jsonOutput bool
	var noSpinner bool
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "analyze <recording>",
		Short: "Score a recorded answer",
		Long: `Transcribe a recording and score its pace, pauses, fillers, blunders, and tone
against the thresholds of an analysis mode (see "speakcoach modes").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			diag, err := ctx.openDiagnostics(cmd)
			if err != nil {
				return err
			}
			defer ctx.closeDiagnostics()

			if !skipChecks {
				if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
					return preflightError(failed)
				}
			}

			audioPath, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve recording path: %w", err)
			}

			processor, err := processorFactory(pipeline.Options{
				Config:    cfg,
				Logger:    diag.Logger,
				Prober:    capabilityProber,
				Workspace: workspace.New(cfg, diag.Logger),
			})
			if err != nil {
				return err
			}
			defer processor.Close()

			req := pipeline.Request{AudioPath: audioPath, Tier: tierFlag, Mode: modeFlag}
			var result pipeline.Result
			run := func(runCtx context.Context) {
				result = processor.Process(runCtx, req)
			}

			stderr := cmd.ErrOrStderr()
			if !jsonOutput && !noSpinner && shouldColorize(stderr) {
				if err := runWithSpinner(cmd.Context(), stderr, "Analyzing "+filepath.Base(audioPath), run); err != nil {
					return err
				}
			} else {
				run(cmd.Context())
			}

			if jsonOutput {
				if err := writeJSON(cmd, newAnalysisJSON(result)); err != nil {
					return err
				}
			} else if result.Err == nil {
				out := cmd.OutOrStdout()
				renderAnalysis(out, newPalette(out, shouldColorize(out)), result, terminalWidth(out))
			}
			if result.Err != nil {
				if errors.Is(result.Err, context.Canceled) || cmd.Context().Err() != nil {
					return context.Canceled
				}
				if notice := degradationNotice(result); notice != "" && !jsonOutput {
					fmt.Fprintln(stderr, notice)
				}
				return errors.New(services.UserMessage(result.Err))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tierFlag, "tier", "t", "", "Engine tier: eco, balanced, pro, or auto (default from config, then hardware)")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Analysis mode (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "Disable the progress spinner")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip the binary and directory preflight")
	return cmd
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, f := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Name, f.Detail))
	}
	return fmt.Errorf("preflight failed (run `speakcoach check`): %s", strings.Join(parts, "; "))
}
