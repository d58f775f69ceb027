package main

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks s into lines no wider than width display cells. Words
// wider than a line are kept whole on their own line.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	if width < 1 {
		width = 1
	}
	var lines []string
	var b strings.Builder
	used := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if used > 0 && used+1+w > width {
			lines = append(lines, b.String())
			b.Reset()
			used = 0
		}
		if used > 0 {
			b.WriteByte(' ')
			used++
		}
		b.WriteString(word)
		used += w
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}

func indentLines(lines []string, indent string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
