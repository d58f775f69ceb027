package feedback

type densityBand struct {
	minSeconds, maxSeconds float64
	minWords, maxWords     int
	sparseTip, verboseTip  string
}

var densityBands = []densityBand{
	{
		minSeconds: 50, maxSeconds: 70,
		minWords: 125, maxWords: 160,
		sparseTip:  "For a 1-min answer, aim for 125-150 words to show depth.",
		verboseTip: "For a 1-min answer, try to be more concise (Target: ~140 words).",
	},
	{
		minSeconds: 110, maxSeconds: 130,
		minWords: 200, maxWords: 260,
		sparseTip:  "For a 2-min answer, aim for 200-250 words.",
		verboseTip: "You exceeded the typical 250-word target for this duration.",
	},
	{
		minSeconds: 290, maxSeconds: 310,
		minWords: 700, maxWords: 800,
		sparseTip:  "For a 5-min presentation, ensure you cover enough ground (~700 words).",
		verboseTip: "For a 5-min presentation, trim to roughly 750 words so key points land.",
	},
}

// Advise returns a content-density tip when duration falls within one of the
// 1, 2, or 5 minute bands (inclusive) and words is outside that band's
// target range. It returns "" otherwise.
func Advise(duration float64, words int) string {
	for _, band := range densityBands {
		if duration < band.minSeconds || duration > band.maxSeconds {
			continue
		}
		switch {
		case words < band.minWords:
			return band.sparseTip
		case words > band.maxWords:
			return band.verboseTip
		}
		return ""
	}
	return ""
}
