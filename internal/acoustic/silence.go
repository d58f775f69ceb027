package acoustic

import (
	"math"

	"speakcoach/internal/media/audio"
)

// SplitSilence splits w into active intervals. The waveform is cut into
// non-overlapping 10 ms blocks; a block is active when its RMS is within
// TopDB of the loudest block. Adjacent active blocks merge. The result is
// sorted and non-overlapping.
func SplitSilence(w audio.Waveform) []Interval {
	if w.SampleRate <= 0 || len(w.Samples) == 0 {
		return nil
	}
	block := blockSize(w.SampleRate)
	levels := blockLevels(w.Samples, block)

	peak := 0.0
	for _, level := range levels {
		peak = math.Max(peak, level)
	}
	if peak == 0 {
		return nil
	}
	threshold := peak * math.Pow(10, -TopDB/20)

	rate := float64(w.SampleRate)
	var intervals []Interval
	start := -1
	for i := 0; i <= len(levels); i++ {
		active := i < len(levels) && levels[i] >= threshold
		switch {
		case active && start < 0:
			start = i
		case !active && start >= 0:
			end := min(i*block, len(w.Samples))
			intervals = append(intervals, Interval{
				Start: float64(start*block) / rate,
				End:   float64(end) / rate,
			})
			start = -1
		}
	}
	return intervals
}

// silenceFloor is the absolute RMS level below which a frame is treated as silence.
func silenceFloor(w audio.Waveform) float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	peak := 0.0
	for _, level := range blockLevels(w.Samples, blockSize(w.SampleRate)) {
		peak = math.Max(peak, level)
	}
	return peak * math.Pow(10, -TopDB/20)
}

func blockSize(sampleRate int) int {
	return max(1, int(math.Round(float64(sampleRate)*blockSeconds)))
}

func blockLevels(samples []float64, block int) []float64 {
	levels := make([]float64, 0, (len(samples)+block-1)/block)
	for offset := 0; offset < len(samples); offset += block {
		levels = append(levels, rms(samples[offset:min(offset+block, len(samples))]))
	}
	return levels
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}
