package chunking

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	defaultParagraphMin = 100
	defaultParagraphMax = 500
)

// ParagraphConfig parameterizes blank-line chunking. Zero values take the
// defaults (min length 100, max size 500).
type ParagraphConfig struct {
	MinLength int
	MaxSize   int
}

// ParagraphStrategy splits text on blank-line boundaries. Paragraphs shorter
// than MinLength are discarded; paragraphs above MaxSize are delegated to
// sentence accumulation.
type ParagraphStrategy struct {
	minLength int
	maxSize   int
	fallback  *SentenceStrategy
}

// NewParagraph validates the config and builds a paragraph strategy.
func NewParagraph(cfg ParagraphConfig) (*ParagraphStrategy, error) {
	min := cfg.MinLength
	if min == 0 {
		min = defaultParagraphMin
	}
	max := cfg.MaxSize
	if max == 0 {
		max = defaultParagraphMax
	}

	if min < 0 || max <= 0 || min >= max {
		return nil, fmt.Errorf("%w: paragraph bounds out of order (min %d, max %d)", ErrInvalidConfig, min, max)
	}

	fallback, err := NewSentence(SentenceConfig{MaxSize: max})
	if err != nil {
		return nil, err
	}

	return &ParagraphStrategy{minLength: min, maxSize: max, fallback: fallback}, nil
}

// Chunk emits each sufficiently long paragraph as one chunk, recursing into
// sentence accumulation for oversized paragraphs.
func (s *ParagraphStrategy) Chunk(ctx context.Context, text string) ([]string, error) {
	var chunks []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		length := utf8.RuneCountInString(p)
		if length < s.minLength {
			continue
		}
		if length > s.maxSize {
			sub, err := s.fallback.Chunk(ctx, p)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, sub...)
			continue
		}
		chunks = append(chunks, p)
	}
	return chunks, nil
}
