package chunking

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"biolens/internal/textproc"
)

const (
	defaultSentenceMin = 50
	defaultSentenceMax = 400
)

// SentenceConfig bounds the accumulated chunk length. Zero values take the
// defaults (min 50, max 400).
type SentenceConfig struct {
	MinSize int
	MaxSize int
}

// SentenceStrategy greedily appends sentences to a running chunk. When an
// append would push the chunk past MaxSize, the chunk is emitted only if it
// already meets MinSize; otherwise the sentence is appended anyway and the
// oversize is accepted, so no chunk lands below the floor except the final
// flush.
type SentenceStrategy struct {
	min int
	max int
}

// NewSentence validates the config and builds a sentence-accumulation strategy.
func NewSentence(cfg SentenceConfig) (*SentenceStrategy, error) {
	min := cfg.MinSize
	if min == 0 {
		min = defaultSentenceMin
	}
	max := cfg.MaxSize
	if max == 0 {
		max = defaultSentenceMax
	}

	if min < 0 || max <= 0 {
		return nil, fmt.Errorf("%w: sentence bounds must be positive (min %d, max %d)", ErrInvalidConfig, min, max)
	}
	if min >= max {
		return nil, fmt.Errorf("%w: min size %d >= max size %d", ErrInvalidConfig, min, max)
	}

	return &SentenceStrategy{min: min, max: max}, nil
}

// Chunk accumulates sentences into bounded chunks. The final running chunk is
// flushed unconditionally if non-empty.
func (s *SentenceStrategy) Chunk(_ context.Context, text string) ([]string, error) {
	sentences := textproc.SplitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []string
	current := sentences[0]

	for _, sentence := range sentences[1:] {
		joined := utf8.RuneCountInString(current) + 1 + utf8.RuneCountInString(sentence)
		if joined <= s.max {
			current += " " + sentence
			continue
		}
		if utf8.RuneCountInString(current) >= s.min {
			chunks = append(chunks, current)
			current = sentence
		} else {
			// Too short to emit; extend and accept the oversize.
			current += " " + sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, current)
	}

	return chunks, nil
}
