package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"speakcoach/internal/engine"
)

type call struct {
	name string
	args []string
}

// fakeEngineRunner writes a JSON transcript the way the engine CLI does.
func fakeEngineRunner(t *testing.T, calls *[]call, transcript string) func(context.Context, string, ...string) ([]byte, error) {
	t.Helper()
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{name: name, args: append([]string(nil), args...)})
		if name == FFmpegCommand {
			return nil, nil
		}
		outDir := argValue(args, "--output_dir")
		audio := args[1]
		base := strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
		body := `{"segments":[{"start":0,"end":1.2,"text":" ` + transcript + `"},{"start":1.2,"end":2,"text":" done."}]}`
		if err := os.WriteFile(filepath.Join(outDir, base+".json"), []byte(body), 0o644); err != nil {
			t.Fatalf("write fake output: %v", err)
		}
		return []byte("ok"), nil
	}
}

func argValue(args []string, flag string) string {
	idx := slices.Index(args, flag)
	if idx < 0 || idx+1 >= len(args) {
		return ""
	}
	return args[idx+1]
}

func TestOpenWarmsUpAndTranscribes(t *testing.T) {
	var calls []call
	svc := NewService(Config{Package: DefaultPackage, Language: "en", WorkDir: t.TempDir()}, nil)
	svc.WithCommandRunner(fakeEngineRunner(t, &calls, "Umm, I-I think"))

	cfg := engine.ModelConfig{Model: "small.en", Device: engine.DeviceCUDA, Precision: engine.PrecisionFloat16}
	eng, err := svc.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if len(calls) != 2 || calls[0].name != FFmpegCommand || calls[1].name != UVXCommand {
		t.Fatalf("expected ffmpeg warm-up clip then engine run, got %+v", calls)
	}

	segments, err := eng.Transcribe(context.Background(), engine.Request{
		AudioPath:     "/recordings/answer.wav",
		BeamSize:      5,
		InitialPrompt: "Umm, I-I think... well, actually...",
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if got := engine.JoinSegments(segments); got != "Umm, I-I think done." {
		t.Fatalf("unexpected transcript %q", got)
	}

	args := calls[2].args
	if args[0] != DefaultPackage || args[1] != "/recordings/answer.wav" {
		t.Fatalf("unexpected leading args %v", args)
	}
	for flag, want := range map[string]string{
		"--model":          "small.en",
		"--device":         "cuda",
		"--compute_type":   "float16",
		"--beam_size":      "5",
		"--language":       "en",
		"--output_format":  "json",
		"--initial_prompt": "Umm, I-I think... well, actually...",
	} {
		if got := argValue(args, flag); got != want {
			t.Errorf("%s = %q want %q", flag, got, want)
		}
	}
	if _, err := os.Stat(argValue(args, "--output_dir")); !os.IsNotExist(err) {
		t.Fatalf("expected scratch dir removed, stat err=%v", err)
	}
}

func TestOpenClassifiesResourceExhaustion(t *testing.T) {
	svc := NewService(Config{Package: DefaultPackage, WorkDir: t.TempDir()}, nil)
	svc.WithCommandRunner(func(_ context.Context, name string, _ ...string) ([]byte, error) {
		if name == FFmpegCommand {
			return nil, nil
		}
		return []byte("RuntimeError: CUDA failed with error out of memory"), errors.New("exit status 1")
	})

	_, err := svc.Open(context.Background(), engine.ModelConfig{Model: "medium.en", Device: engine.DeviceCUDA, Precision: engine.PrecisionFloat16})
	if !engine.IsResourceExhausted(err) {
		t.Fatalf("expected resource exhaustion, got %v", err)
	}
}

func TestOpenSurfacesOtherFailures(t *testing.T) {
	svc := NewService(Config{WorkDir: t.TempDir()}, nil)
	svc.WithCommandRunner(func(_ context.Context, name string, _ ...string) ([]byte, error) {
		return []byte("No such file"), errors.New("exit status 2")
	})
	_, err := svc.Open(context.Background(), engine.ModelConfig{Model: "tiny.en", Device: engine.DeviceCPU, Precision: engine.PrecisionInt8})
	if err == nil || engine.IsResourceExhausted(err) {
		t.Fatalf("expected plain failure, got %v", err)
	}
}

func TestSkipWarmupAndDirectCommand(t *testing.T) {
	var calls []call
	svc := NewService(Config{Command: "whisper-ctranslate2", SkipWarmup: true, WorkDir: t.TempDir()}, nil)
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, call{name: name, args: args})
		outDir := argValue(args, "--output_dir")
		return nil, os.WriteFile(filepath.Join(outDir, "answer.json"), []byte(`{"segments":[]}`), 0o644)
	})

	eng, err := svc.Open(context.Background(), engine.ModelConfig{Model: "tiny.en", Device: engine.DeviceCPU, Precision: engine.PrecisionInt8})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected no warm-up, got %+v", calls)
	}
	segments, err := eng.Transcribe(context.Background(), engine.Request{AudioPath: "answer.wav"})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %v", segments)
	}
	if calls[0].name != "whisper-ctranslate2" || calls[0].args[0] != "answer.wav" {
		t.Fatalf("expected direct invocation, got %+v", calls[0])
	}
	if slices.Contains(calls[0].args, "--initial_prompt") || slices.Contains(calls[0].args, "--beam_size") {
		t.Fatalf("unexpected optional flags %v", calls[0].args)
	}
}

func TestOpenRequiresModel(t *testing.T) {
	svc := NewService(Config{}, nil)
	if _, err := svc.Open(context.Background(), engine.ModelConfig{}); err == nil {
		t.Fatal("expected error for empty model")
	}
}
