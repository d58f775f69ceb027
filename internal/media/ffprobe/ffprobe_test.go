package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "data"},
			{Index: 1, CodecType: "audio", SampleRate: "44100", Channels: 2},
			{Index: 2, CodecType: "audio"},
		},
		Format: Format{
			Duration: "61.25",
			Size:     "1000",
		},
	}
	stream, ok := result.AudioStream()
	if !ok || stream.Index != 1 {
		t.Fatalf("expected first audio stream, got %+v ok=%v", stream, ok)
	}
	if stream.SampleRateHz() != 44100 {
		t.Fatalf("unexpected sample rate: %d", stream.SampleRateHz())
	}
	if result.DurationSeconds() != 61.25 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if size, ok := result.SizeBytes(); !ok || size != 1000 {
		t.Fatalf("unexpected size: %d ok=%v", size, ok)
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio", Duration: "2.5"}}}
	if result.DurationSeconds() != 2.5 {
		t.Fatalf("expected stream duration, got %v", result.DurationSeconds())
	}
	if (Result{}).DurationSeconds() != 0 {
		t.Fatal("expected zero duration for empty result")
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if size, ok := result.SizeBytes(); ok {
		t.Fatalf("negative size should be unavailable, got %d", size)
	}
	if _, ok := (Result{}).SizeBytes(); ok {
		t.Fatal("missing size should be unavailable")
	}
	if size, ok := (Result{Format: Format{Size: "0"}}).SizeBytes(); !ok || size != 0 {
		t.Fatalf("explicit zero size should be reported, got %d ok=%v", size, ok)
	}
	if (Stream{SampleRate: "n/a"}).SampleRateHz() != 0 {
		t.Fatal("expected zero sample rate for invalid value")
	}
}

func TestInspectWithStubBinary(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n{\"streams\":[{\"index\":0,\"codec_type\":\"audio\",\"sample_rate\":\"16000\"}],\"format\":{\"duration\":\"3.000\"}}\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	result, err := Inspect(context.Background(), stub, "answer.wav")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.DurationSeconds() != 3 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
	if _, err := Inspect(context.Background(), stub, " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
