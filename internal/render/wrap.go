package render

import (
	"strings"

	"golang.org/x/image/font"
)

// wrapWidth greedily packs words into lines no wider than maxWidth pixels,
// measured with the given face. A single word wider than maxWidth gets its
// own line rather than being split.
func wrapWidth(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// wrapColumns packs words into lines of at most limit characters. Used for
// the error canvas, where a fixed column width is fine.
func wrapColumns(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= limit {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
