package main

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"speakcoach/internal/config"
	"speakcoach/internal/deps"
	"speakcoach/internal/hardware"
	"speakcoach/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	diagnostics *logging.Diagnostics
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// openDiagnostics opens the diagnostic log for cmd, records the startup
// system report, and prunes logs past retention. Callers must defer
// closeDiagnostics.
func (c *commandContext) openDiagnostics(cmd *cobra.Command) (*logging.Diagnostics, error) {
	if c.diagnostics != nil {
		return c.diagnostics, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var console io.Writer
	if c.verbose != nil && *c.verbose {
		console = cmd.ErrOrStderr()
	}
	diag, err := logging.OpenFromConfig(cfg, console)
	if err != nil {
		return nil, err
	}
	c.diagnostics = diag

	logger := logging.NewComponentLogger(diag.Logger, "cli")
	ffmpeg := deps.Version(cmd.Context(), cfg.FFmpegBinary())
	launcher := deps.CheckBinaries([]deps.Requirement{{Name: "engine", Command: cfg.Engine.Command}})[0]
	logging.LogSystemInfo(logger,
		logging.String("command", cmd.CommandPath()),
		logging.Float64("total_ram_gib", hardware.GiB(hardware.NewProber().Probe(cmd.Context()).TotalRAMBytes)),
		logging.Bool("ffmpeg_found", ffmpeg != ""),
		logging.String("ffmpeg_version", ffmpeg),
		logging.Bool("engine_launcher_found", launcher.Available),
		logging.String("log_file", diag.Path()),
	)
	logging.PruneLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, time.Now())
	return diag, nil
}

func (c *commandContext) closeDiagnostics() {
	if c.diagnostics != nil {
		_ = c.diagnostics.Close()
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
