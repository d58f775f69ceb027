package engine

import (
	"fmt"
	"strings"

	"speakcoach/internal/config"
	"speakcoach/internal/hardware"
)

// Tier is a named accuracy and resource trade-off.
type Tier string

const (
	Eco      Tier = config.TierEco
	Balanced Tier = config.TierBalanced
	Pro      Tier = config.TierPro
)

// Tiers lists every tier from smallest to largest.
func Tiers() []Tier {
	return []Tier{Eco, Balanced, Pro}
}

// ParseTier accepts tier names case-insensitively.
func ParseTier(value string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(value))); t {
	case Eco, Balanced, Pro:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tier %q (want eco, balanced, or pro)", value)
	}
}

// Title returns the display name of the tier.
func (t Tier) Title() string {
	switch t {
	case Eco:
		return "Eco"
	case Balanced:
		return "Balanced"
	case Pro:
		return "Pro"
	default:
		return string(t)
	}
}

// Accelerated reports whether the tier asks for a hardware accelerator.
func (t Tier) Accelerated() bool {
	return t == Balanced || t == Pro
}

// Devices and precisions understood by the engine adapters.
const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"

	PrecisionInt8    = "int8"
	PrecisionFloat16 = "float16"
	PrecisionFloat32 = "float32"
)

// ModelConfig identifies one loadable engine configuration. It is comparable
// and used as the cache key.
type ModelConfig struct {
	Model     string `json:"model"`
	Device    string `json:"device"`
	Precision string `json:"precision"`
}

func (c ModelConfig) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Model, c.Device, c.Precision)
}

// Models names the model used for each tier and for the minimal fallback.
type Models struct {
	Eco      string
	Balanced string
	Pro      string
	Fallback string
}

// ModelsFromConfig reads the per-tier model names from configuration.
func ModelsFromConfig(cfg *config.Config) Models {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Models{
		Eco:      cfg.Engine.EcoModel,
		Balanced: cfg.Engine.BalancedModel,
		Pro:      cfg.Engine.ProModel,
		Fallback: cfg.Engine.FallbackModel,
	}
}

func (m Models) forTier(t Tier) string {
	switch t {
	case Pro:
		return m.Pro
	case Balanced:
		return m.Balanced
	default:
		return m.Eco
	}
}

// Resolve maps tier and hardware capabilities to a ModelConfig. Accelerated
// tiers use CUDA with float16 when available. Apple unified-memory hosts run
// accelerated tiers on the CPU at float32. Everything else is CPU with int8.
func Resolve(tier Tier, caps hardware.Capabilities, models Models) ModelConfig {
	cfg := ModelConfig{Model: models.forTier(tier), Device: DeviceCPU, Precision: PrecisionInt8}
	if !tier.Accelerated() {
		return cfg
	}
	switch {
	case caps.CUDA:
		cfg.Device, cfg.Precision = DeviceCUDA, PrecisionFloat16
	case caps.UnifiedMemory:
		cfg.Precision = PrecisionFloat32
	}
	return cfg
}

// Minimal returns the fallback configuration that must always fit.
func Minimal(models Models) ModelConfig {
	return ModelConfig{Model: models.Fallback, Device: DeviceCPU, Precision: PrecisionInt8}
}
