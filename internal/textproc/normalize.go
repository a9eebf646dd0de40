package textproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	pageFooter      = regexp.MustCompile(`(?i)Page\s+\d+\s+of\s+\d+`)
	spaceBeforeStop = regexp.MustCompile(` +([,.!?;:])`)
)

// Normalize cleans raw extracted text for chunking. It strips common OCR
// artifacts and page-footer noise, collapses any run of whitespace (including
// newlines) to a single space, and trims the result. Normalize is idempotent:
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	// '|' is a frequent OCR misread of 'I' in scanned textbooks.
	text := strings.ReplaceAll(raw, "|", "I")
	text = pageFooter.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = spaceBeforeStop.ReplaceAllString(text, "$1")

	return strings.TrimSpace(text)
}

// NormalizeBlocks normalizes each blank-line separated block of raw text
// independently and rejoins the survivors with a blank line. This keeps
// paragraph boundaries available to paragraph-aware chunking while every
// block still satisfies the Normalize contract.
func NormalizeBlocks(raw string) string {
	blocks := strings.Split(raw, "\n\n")
	cleaned := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if norm := Normalize(block); norm != "" {
			cleaned = append(cleaned, norm)
		}
	}
	return strings.Join(cleaned, "\n\n")
}
