package acoustic

import (
	"math"

	"speakcoach/internal/media/audio"
)

// frameStats walks w in frameLength windows with hopLength stride and returns
// the pitch of every voiced frame in the speech band plus the mean frame RMS.
func frameStats(w audio.Waveform, floor float64) ([]float64, float64) {
	samples := w.Samples
	if len(samples) == 0 || w.SampleRate <= 0 {
		return nil, 0
	}
	var pitches []float64
	energySum := 0.0
	frames := 0
	for start := 0; start < len(samples); start += hopLength {
		end := min(start+frameLength, len(samples))
		frame := samples[start:end]
		level := rms(frame)
		energySum += level
		frames++
		if level >= floor && level > 0 {
			if f0, ok := estimatePitch(frame, w.SampleRate); ok {
				pitches = append(pitches, f0)
			}
		}
		if end == len(samples) {
			break
		}
	}
	return pitches, energySum / float64(frames)
}

// estimatePitch returns the fundamental frequency of frame using normalized
// autocorrelation. Frames whose best correlation is below voicingFloor, or
// whose estimate falls outside (minPitchHz, maxPitchHz), are rejected.
func estimatePitch(frame []float64, sampleRate int) (float64, bool) {
	rate := float64(sampleRate)
	minLag := int(math.Ceil(rate / maxPitchHz))
	maxLag := int(math.Floor(rate / minPitchHz))
	window := len(frame) - maxLag
	if minLag < 1 || window <= minLag {
		return 0, false
	}

	corr := make([]float64, maxLag+2)
	best := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		corr[lag] = normalizedCorrelation(frame, lag, window)
		best = math.Max(best, corr[lag])
	}
	if best < voicingFloor {
		return 0, false
	}

	// The first local peak close to the global maximum avoids picking a subharmonic.
	for lag := minLag; lag <= maxLag; lag++ {
		c := corr[lag]
		if c < 0.9*best {
			continue
		}
		if lag > minLag && corr[lag-1] > c {
			continue
		}
		if lag < maxLag && corr[lag+1] > c {
			continue
		}
		f0 := rate / float64(lag)
		if f0 <= minPitchHz || f0 >= maxPitchHz {
			return 0, false
		}
		return f0, true
	}
	return 0, false
}

func normalizedCorrelation(frame []float64, lag, window int) float64 {
	var cross, a, b float64
	for i := 0; i < window; i++ {
		x := frame[i]
		y := frame[i+lag]
		cross += x * y
		a += x * x
		b += y * y
	}
	if a == 0 || b == 0 {
		return 0
	}
	return cross / math.Sqrt(a*b)
}
