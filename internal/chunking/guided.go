package chunking

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	guidedMinLength = 200
	guidedMaxLength = 500
)

// SplitFunc delegates segmentation to an external capability such as an LLM
// or a rule engine. It returns candidate segments for the given text.
type SplitFunc func(ctx context.Context, text string) ([]string, error)

// GuidedStrategy runs an injected splitter and keeps only segments whose
// trimmed length falls in [200, 500] characters; everything else is discarded.
type GuidedStrategy struct {
	split SplitFunc
}

// NewGuided builds an externally-guided strategy around the given splitter.
func NewGuided(split SplitFunc) (*GuidedStrategy, error) {
	if split == nil {
		return nil, fmt.Errorf("%w: guided strategy requires a split function", ErrInvalidConfig)
	}
	return &GuidedStrategy{split: split}, nil
}

// Chunk invokes the external splitter and filters its output to the accepted
// length band.
func (s *GuidedStrategy) Chunk(ctx context.Context, text string) ([]string, error) {
	segments, err := s.split(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("external splitter failed: %w", err)
	}

	var chunks []string
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		length := utf8.RuneCountInString(segment)
		if length < guidedMinLength || length > guidedMaxLength {
			continue
		}
		chunks = append(chunks, segment)
	}
	return chunks, nil
}
