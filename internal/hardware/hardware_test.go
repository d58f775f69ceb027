package hardware

import (
	"context"
	"errors"
	"testing"

	"speakcoach/internal/config"
)

func TestProbeDetectsNvidia(t *testing.T) {
	p := NewProber()
	p.WithHost("linux", "amd64", 16*gib)
	var called []string
	p.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		called = append(called, name)
		return []byte("NVIDIA GeForce GTX 1650, 4096\nNVIDIA RTX A2000, 6144\n"), nil
	})

	caps := p.Probe(context.Background())
	if len(called) != 1 || called[0] != NvidiaSMICommand {
		t.Fatalf("expected nvidia-smi query, got %v", called)
	}
	if !caps.CUDA || caps.GPUName != "NVIDIA RTX A2000" || caps.VRAMBytes != 6144*mib {
		t.Fatalf("unexpected capabilities %+v", caps)
	}
	if caps.TotalRAMBytes != 16*gib || caps.UnifiedMemory {
		t.Fatalf("unexpected memory fields %+v", caps)
	}
}

func TestProbeWithoutNvidia(t *testing.T) {
	p := NewProber()
	p.WithHost("linux", "amd64", 8*gib)
	p.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("executable file not found")
	})
	caps := p.Probe(context.Background())
	if caps.CUDA || caps.VRAMBytes != 0 {
		t.Fatalf("expected no accelerator, got %+v", caps)
	}
}

func TestProbeAppleSiliconSkipsNvidia(t *testing.T) {
	p := NewProber()
	p.WithHost("darwin", "arm64", 16*gib)
	p.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		t.Fatal("nvidia-smi should not run on Apple silicon")
		return nil, nil
	})
	caps := p.Probe(context.Background())
	if !caps.UnifiedMemory || caps.CUDA {
		t.Fatalf("unexpected capabilities %+v", caps)
	}
}

func TestParseNvidiaSMIIgnoresGarbage(t *testing.T) {
	if _, _, ok := parseNvidiaSMI("No devices were found\n"); ok {
		t.Fatal("expected no GPU from error text")
	}
	if _, _, ok := parseNvidiaSMI(""); ok {
		t.Fatal("expected no GPU from empty output")
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want string
	}{
		{"big gpu", Capabilities{CUDA: true, VRAMBytes: 8 * gib, TotalRAMBytes: 4 * gib}, config.TierPro},
		{"exactly 4 GiB", Capabilities{CUDA: true, VRAMBytes: 4 * gib}, config.TierPro},
		{"small gpu, lots of ram", Capabilities{CUDA: true, VRAMBytes: 2 * gib, TotalRAMBytes: 32 * gib}, config.TierBalanced},
		{"apple", Capabilities{UnifiedMemory: true, TotalRAMBytes: 8 * gib}, config.TierBalanced},
		{"12 GiB ram", Capabilities{TotalRAMBytes: 12 * gib}, config.TierBalanced},
		{"low memory", Capabilities{TotalRAMBytes: 8 * gib}, config.TierEco},
		{"unknown", Capabilities{}, config.TierEco},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Recommend(tc.caps)
			if got.Tier != tc.want {
				t.Fatalf("got %q want %q", got.Tier, tc.want)
			}
			if got.Reason == "" {
				t.Fatal("expected a reason")
			}
		})
	}
}
