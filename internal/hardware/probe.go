package hardware

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	// NvidiaSMICommand queries NVIDIA GPUs.
	NvidiaSMICommand = "nvidia-smi"

	probeTimeout = 5 * time.Second
	mib          = 1 << 20
)

// Capabilities describes the accelerator and memory available to the engine.
type Capabilities struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	CUDA          bool   `json:"cuda"`
	GPUName       string `json:"gpu_name,omitempty"`
	VRAMBytes     uint64 `json:"vram_bytes"`
	TotalRAMBytes uint64 `json:"total_ram_bytes"`
	// UnifiedMemory is set on Apple silicon.
	UnifiedMemory bool `json:"unified_memory"`
}

// Prober collects Capabilities.
type Prober struct {
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
	memory        func() uint64
	goos          string
	goarch        string
}

// NewProber returns a Prober for the running host.
func NewProber() *Prober {
	return &Prober{
		memory: totalMemory,
		goos:   runtime.GOOS,
		goarch: runtime.GOARCH,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (p *Prober) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	p.commandRunner = runner
}

// WithHost overrides the platform and memory readings (for testing).
func (p *Prober) WithHost(goos, goarch string, totalRAM uint64) {
	p.goos = goos
	p.goarch = goarch
	p.memory = func() uint64 { return totalRAM }
}

// Probe inspects the host.
func (p *Prober) Probe(ctx context.Context) Capabilities {
	caps := Capabilities{
		OS:            p.goos,
		Arch:          p.goarch,
		UnifiedMemory: p.goos == "darwin" && p.goarch == "arm64",
	}
	if p.memory != nil {
		caps.TotalRAMBytes = p.memory()
	}
	if caps.UnifiedMemory {
		return caps
	}
	if name, vram, ok := p.queryNvidia(ctx); ok {
		caps.CUDA = true
		caps.GPUName = name
		caps.VRAMBytes = vram
	}
	return caps
}

func (p *Prober) queryNvidia(ctx context.Context) (string, uint64, bool) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	output, err := p.run(ctx, NvidiaSMICommand, "--query-gpu=name,memory.total", "--format=csv,noheader,nounits")
	if err != nil {
		return "", 0, false
	}
	return parseNvidiaSMI(string(output))
}

func (p *Prober) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if p.commandRunner != nil {
		return p.commandRunner(ctx, name, args...)
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, name, args...).Output() //nolint:gosec
}

// parseNvidiaSMI reads the first "name, memory MiB" line and reports the
// largest memory among all listed GPUs.
func parseNvidiaSMI(output string) (string, uint64, bool) {
	var (
		name string
		best uint64
	)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.LastIndex(line, ",")
		if idx < 0 {
			continue
		}
		mem, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
		if err != nil || mem <= 0 {
			continue
		}
		bytes := uint64(mem * mib)
		if bytes > best {
			best = bytes
			name = strings.TrimSpace(line[:idx])
		}
	}
	return name, best, best > 0
}
