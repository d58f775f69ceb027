package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultSampleRate is the rate recordings are resampled to before analysis.
const DefaultSampleRate = 16000

// Waveform holds mono samples normalized to [-1, 1].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Decode runs ffmpeg against path and returns the resampled mono waveform.
func Decode(ctx context.Context, ffmpegBinary, path string) (Waveform, error) {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(path) == "" {
		return Waveform{}, errors.New("decode audio: empty path")
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(DefaultSampleRate),
		"-f", "s16le",
		"-",
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	var stderr, stdout bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return Waveform{}, fmt.Errorf("ffmpeg pcm decode: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return DecodePCM(stdout.Bytes(), DefaultSampleRate)
}

// DecodePCM converts little-endian signed 16-bit mono PCM into a Waveform.
// A trailing odd byte is ignored.
func DecodePCM(data []byte, sampleRate int) (Waveform, error) {
	if sampleRate <= 0 {
		return Waveform{}, fmt.Errorf("decode pcm: invalid sample rate %d", sampleRate)
	}
	samples := make([]float64, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[2*i:]))
		samples[i] = float64(v) / 32768.0
	}
	return Waveform{Samples: samples, SampleRate: sampleRate}, nil
}
