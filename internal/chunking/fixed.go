package chunking

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

const (
	defaultFixedSize    = 300
	defaultFixedOverlap = 80
)

// FixedConfig parameterizes the sliding-window strategy. Zero values take the
// defaults (size 300, overlap 80).
type FixedConfig struct {
	Size    int
	Overlap int
}

// FixedStrategy advances a window of Size characters, stepping by
// Size-Overlap each iteration. When the window boundary lands inside a word
// it backs off to the last preceding space; if the window contains no space
// the hard boundary is accepted.
type FixedStrategy struct {
	size    int
	overlap int
}

// NewFixed validates the config and builds a fixed-size strategy. An overlap
// at or above the window size yields a non-positive step and fails with
// ErrInvalidConfig.
func NewFixed(cfg FixedConfig) (*FixedStrategy, error) {
	size := cfg.Size
	if size == 0 {
		size = defaultFixedSize
	}
	overlap := cfg.Overlap
	if overlap == 0 {
		overlap = defaultFixedOverlap
	}

	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d >= size %d leaves no forward step", ErrInvalidConfig, overlap, size)
	}

	return &FixedStrategy{size: size, overlap: overlap}, nil
}

// Chunk slides the window across the text. Each emitted chunk is non-empty
// after trimming and at most Size characters long.
func (s *FixedStrategy) Chunk(_ context.Context, text string) ([]string, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + s.size
		if end >= len(runes) {
			if c := strings.TrimSpace(string(runes[start:])); c != "" {
				chunks = append(chunks, c)
			}
			break
		}

		// Back off to the previous space when the boundary splits a word.
		if !unicode.IsSpace(runes[end]) && !unicode.IsSpace(runes[end-1]) {
			if i := lastSpaceBefore(runes, start, end); i > start {
				end = i
			}
		}

		if c := strings.TrimSpace(string(runes[start:end])); c != "" {
			chunks = append(chunks, c)
		}

		next := end - s.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

func lastSpaceBefore(runes []rune, start, end int) int {
	for i := end - 1; i > start; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
