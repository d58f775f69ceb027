package audio

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodePCM(t *testing.T) {
	values := []int16{0, 16384, -32768, 32767}
	data := make([]byte, 0, len(values)*2+1)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint16(data, uint16(v))
	}
	data = append(data, 0xff)

	wave, err := DecodePCM(data, 8000)
	if err != nil {
		t.Fatalf("DecodePCM returned error: %v", err)
	}
	if len(wave.Samples) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(wave.Samples))
	}
	want := []float64{0, 0.5, -1, 32767.0 / 32768.0}
	for i, w := range want {
		if wave.Samples[i] != w {
			t.Fatalf("sample %d: got %v want %v", i, wave.Samples[i], w)
		}
	}
	if got := wave.Duration(); got != 4.0/8000.0 {
		t.Fatalf("unexpected duration %v", got)
	}
}

func TestDecodePCMRejectsInvalidRate(t *testing.T) {
	if _, err := DecodePCM([]byte{0, 0}, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestDecodeUsesFFmpegStdout(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	// Two samples of value 0x0100 (256).
	script := "#!/bin/sh\nprintf '\\000\\001\\000\\001'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	wave, err := Decode(context.Background(), stub, "answer.wav")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if wave.SampleRate != DefaultSampleRate || len(wave.Samples) != 2 {
		t.Fatalf("unexpected waveform: rate=%d len=%d", wave.SampleRate, len(wave.Samples))
	}
	if wave.Samples[0] != 256.0/32768.0 {
		t.Fatalf("unexpected sample %v", wave.Samples[0])
	}
}

func TestDecodeReportsFFmpegFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'bad input' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if _, err := Decode(context.Background(), stub, "answer.wav"); err == nil {
		t.Fatal("expected error from failing ffmpeg")
	}
}
