package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeAnalysis()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.RecordingsDir) == "" {
		c.Paths.RecordingsDir = filepath.Join(c.Paths.DataDir, defaultRecordingsSubdir)
	}
	if c.Paths.RecordingsDir, err = expandPath(c.Paths.RecordingsDir); err != nil {
		return fmt.Errorf("paths.recordings_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, defaultLogSubdir)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.Command = strings.TrimSpace(c.Engine.Command)
	if c.Engine.Command == "" {
		c.Engine.Command = defaultEngineCommand
	}
	c.Engine.Package = strings.TrimSpace(c.Engine.Package)
	c.Engine.EcoModel = defaultString(c.Engine.EcoModel, defaultEcoModel)
	c.Engine.BalancedModel = defaultString(c.Engine.BalancedModel, defaultBalancedModel)
	c.Engine.ProModel = defaultString(c.Engine.ProModel, defaultProModel)
	c.Engine.FallbackModel = defaultString(c.Engine.FallbackModel, defaultFallbackModel)
	c.Engine.Language = strings.ToLower(strings.TrimSpace(c.Engine.Language))
	c.Engine.InitialPrompt = strings.TrimSpace(c.Engine.InitialPrompt)
	c.Engine.DefaultTier = strings.ToLower(strings.TrimSpace(c.Engine.DefaultTier))
	if c.Engine.DefaultTier == "auto" {
		c.Engine.DefaultTier = ""
	}
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.DefaultMode = defaultString(c.Analysis.DefaultMode, defaultMode)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	if value, ok := os.LookupEnv("SPEAKCOACH_NTFY_TOPIC"); ok && strings.TrimSpace(value) != "" {
		c.Notifications.NtfyTopic = value
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
