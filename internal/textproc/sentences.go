package textproc

import (
	"strings"
	"unicode"
)

// SplitSentences splits text into sentences at '.', '!' or '?' followed by
// whitespace. Abbreviations and decimal points are not disambiguated; that is
// an accepted limitation of the boundary heuristic. Zero-length fragments are
// dropped after trimming.
func SplitSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
			// Skip the whitespace run that marked the boundary.
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
