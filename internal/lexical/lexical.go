// Package lexical counts surface disfluencies in a transcript: filler words
// and phrases, stutters ("I-I"), immediate word repetitions, and blunder
// markers such as ellipses and spoken self-corrections.
//
// All functions are pure; analyzing the same transcript twice yields the
// same Metrics.
package lexical

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Word boundaries are checked by countTerms rather than \b, which is ASCII-only
// in Go and would split "café" or match "um" inside "éum".
var (
	fillerPattern  = regexp.MustCompile(`(?i)(?:um+|uh+|ah+|hmm+|like|you know|sort of|kind of|i mean|basically|actually)`)
	blunderPattern = regexp.MustCompile(`(?i)(\.\.\.|scratch that|sorry i mean)`)
	wordPattern    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Metrics holds the linguistic counts for one transcript.
type Metrics struct {
	WordCount int `json:"word_count"`
	WPM       int `json:"wpm"`
	// FillerCount is Fillers + Stutters + Repetitions.
	FillerCount  int `json:"filler_count"`
	BlunderCount int `json:"blunder_count"`

	Fillers     int `json:"fillers"`
	Stutters    int `json:"stutters"`
	Repetitions int `json:"repetitions"`
}

// Analyze counts words, fillers, and blunders in transcript. WPM is left at
// zero; use WithActiveTime once the speaking time is known.
func Analyze(transcript string) Metrics {
	stutters, repetitions := repeatedTokens(transcript)
	m := Metrics{
		WordCount:    len(strings.Fields(transcript)),
		Fillers:      countTerms(fillerPattern, transcript),
		Stutters:     stutters,
		Repetitions:  repetitions,
		BlunderCount: len(blunderPattern.FindAllStringIndex(transcript, -1)),
	}
	m.FillerCount = m.Fillers + m.Stutters + m.Repetitions
	return m
}

// WithActiveTime returns a copy of m with WPM computed from activeSeconds.
func (m Metrics) WithActiveTime(activeSeconds float64) Metrics {
	m.WPM = WordsPerMinute(m.WordCount, activeSeconds)
	return m
}

// WordsPerMinute returns words per minute of active speech, rounded to the
// nearest integer. It returns 0 when activeSeconds is not positive.
func WordsPerMinute(words int, activeSeconds float64) int {
	if activeSeconds <= 0 {
		return 0
	}
	return int(math.Round(float64(words) / (activeSeconds / 60)))
}

// repeatedTokens scans adjacent word tokens. A pair joined by a single hyphen
// is a stutter; a pair separated only by whitespace is a repetition. Tokens
// compare case-insensitively and a matched pair is not reused.
func repeatedTokens(transcript string) (stutters, repetitions int) {
	locs := wordPattern.FindAllStringIndex(transcript, -1)
	scan := func(joined func(gap string) bool) int {
		count := 0
		for i := 0; i+1 < len(locs); i++ {
			a, b := locs[i], locs[i+1]
			if !joined(transcript[a[1]:b[0]]) {
				continue
			}
			if strings.EqualFold(transcript[a[0]:a[1]], transcript[b[0]:b[1]]) {
				count++
				i++
			}
		}
		return count
	}
	stutters = scan(func(gap string) bool { return gap == "-" })
	repetitions = scan(func(gap string) bool {
		return gap != "" && strings.TrimSpace(gap) == ""
	})
	return stutters, repetitions
}

// countTerms counts non-overlapping matches of re that start and end on a
// word boundary. A rejected match resumes the search one rune later.
func countTerms(re *regexp.Regexp, s string) int {
	count := 0
	for pos := 0; pos < len(s); {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && atBoundary(s, start) && atBoundary(s, end) {
			count++
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + max(size, 1)
	}
	return count
}

// atBoundary reports whether byte offset i separates a word rune from a
// non-word rune. Letters and digits of any script are word runes.
func atBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
