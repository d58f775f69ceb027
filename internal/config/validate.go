package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.BeamSize <= 0 {
		return errors.New("engine.beam_size must be positive")
	}
	switch c.Engine.DefaultTier {
	case "", TierEco, TierBalanced, TierPro:
	default:
		return fmt.Errorf("engine.default_tier must be one of eco, balanced, pro (got %q)", c.Engine.DefaultTier)
	}
	for key, model := range map[string]string{
		"engine.eco_model":      c.Engine.EcoModel,
		"engine.balanced_model": c.Engine.BalancedModel,
		"engine.pro_model":      c.Engine.ProModel,
		"engine.fallback_model": c.Engine.FallbackModel,
	} {
		if strings.ContainsAny(model, " \t") {
			return fmt.Errorf("%s must not contain whitespace (got %q)", key, model)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}
