package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"speakcoach/internal/engine"
	"speakcoach/internal/hardware"
	"speakcoach/internal/pipeline"
)

// capabilityProber is shared by hardware and analyze. Tests replace it.
var capabilityProber pipeline.Prober = hardware.NewProber()

func probeHardware(cmd *cobra.Command) hardware.Capabilities {
	return capabilityProber.Probe(cmd.Context())
}

type hardwareReport struct {
	Capabilities   hardware.Capabilities   `json:"capabilities"`
	Recommendation hardware.Recommendation `json:"recommendation"`
	Tiers          []tierConfig            `json:"tiers"`
}

type tierConfig struct {
	Tier   engine.Tier        `json:"tier"`
	Config engine.ModelConfig `json:"config"`
}

func newHardwareCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Show detected hardware and the recommended tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			caps := probeHardware(cmd)
			models := engine.ModelsFromConfig(cfg)
			report := hardwareReport{
				Capabilities:   caps,
				Recommendation: hardware.Recommend(caps),
			}
			for _, tier := range engine.Tiers() {
				report.Tiers = append(report.Tiers, tierConfig{Tier: tier, Config: engine.Resolve(tier, caps, models)})
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			p := newPalette(out, shouldColorize(out))
			fmt.Fprintln(out, sectionHeader(p, "Hardware"))
			fmt.Fprintf(out, "  Platform:       %s/%s\n", caps.OS, caps.Arch)
			fmt.Fprintf(out, "  System memory:  %.1f GiB\n", hardware.GiB(caps.TotalRAMBytes))
			if caps.CUDA {
				fmt.Fprintf(out, "  NVIDIA GPU:     %s (%.1f GiB VRAM)\n", caps.GPUName, hardware.GiB(caps.VRAMBytes))
			} else {
				fmt.Fprintln(out, "  NVIDIA GPU:     none detected")
			}
			fmt.Fprintf(out, "  Apple silicon:  %s\n", yesNo(caps.UnifiedMemory))
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(report.Tiers))
			for _, tc := range report.Tiers {
				name := tc.Tier.Title()
				if string(tc.Tier) == report.Recommendation.Tier {
					name = p.render(p.good, name+" (recommended)")
				}
				rows = append(rows, []string{name, tc.Config.Model, tc.Config.Device, tc.Config.Precision})
			}
			fmt.Fprintln(out, renderTable([]string{"Tier", "Model", "Device", "Precision"}, rows, nil, terminalWidth(out)))
			fmt.Fprintln(out, report.Recommendation.Reason)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
