package hardware

import (
	"fmt"

	"speakcoach/internal/config"
)

const (
	gib = 1 << 30

	// ProVRAMBytes is the accelerator memory needed to recommend the Pro tier.
	ProVRAMBytes = 4 * gib
	// BalancedRAMBytes is the system memory needed to recommend the Balanced tier.
	BalancedRAMBytes = 12 * gib
)

// Recommendation is the suggested tier name and why it was chosen.
type Recommendation struct {
	Tier   string `json:"tier"`
	Reason string `json:"reason"`
}

// Recommend picks a tier for caps. NVIDIA GPUs with at least 4 GiB get Pro,
// Apple silicon or 12 GiB of RAM get Balanced, everything else Eco.
func Recommend(caps Capabilities) Recommendation {
	switch {
	case caps.CUDA && caps.VRAMBytes >= ProVRAMBytes:
		return Recommendation{
			Tier:   config.TierPro,
			Reason: fmt.Sprintf("NVIDIA GPU detected (%s, %.1f GB VRAM). Pro is ready.", caps.GPUName, GiB(caps.VRAMBytes)),
		}
	case caps.UnifiedMemory:
		return Recommendation{
			Tier:   config.TierBalanced,
			Reason: "Apple silicon detected. Balanced recommended; try Pro if the machine keeps up.",
		}
	case caps.TotalRAMBytes >= BalancedRAMBytes:
		return Recommendation{
			Tier:   config.TierBalanced,
			Reason: fmt.Sprintf("%.1f GB of RAM available. Balanced recommended.", GiB(caps.TotalRAMBytes)),
		}
	default:
		return Recommendation{
			Tier:   config.TierEco,
			Reason: "Limited system resources. Eco recommended for speed.",
		}
	}
}

// GiB converts bytes to gibibytes.
func GiB(bytes uint64) float64 {
	return float64(bytes) / gib
}
