package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"speakcoach/internal/media/audio"
)

// WriteRecording creates a placeholder recording under the config's
// recordings directory and returns its path. The content is not decodable
// audio; tests pair it with a fake decoder.
func WriteRecording(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("RIFF\x00\x00\x00\x00WAVEfmt "), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Speech synthesizes seconds of a 150 Hz tone followed by silence seconds of
// silence at the default sample rate. The tone stands in for voiced speech.
func Speech(seconds, silence float64) audio.Waveform {
	rate := audio.DefaultSampleRate
	n := int(math.Round(seconds * float64(rate)))
	samples := make([]float64, n+int(math.Round(silence*float64(rate))))
	for i := 0; i < n; i++ {
		samples[i] = 0.3 * math.Sin(2*math.Pi*150*float64(i)/float64(rate))
	}
	return audio.Waveform{Samples: samples, SampleRate: rate}
}
