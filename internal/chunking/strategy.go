package chunking

import (
	"context"
	"errors"
	"fmt"

	"biolens/internal/embedding"
)

// ErrInvalidConfig is returned when strategy parameters cannot produce a
// terminating chunker (for example a window overlap at or above the window
// size, which would stall forward progress).
var ErrInvalidConfig = errors.New("invalid chunking config")

// Strategy turns document text into a sequence of chunk strings. Strategies
// are pure functions over their input and configuration: no hidden state, so
// they can be applied to independent documents in parallel.
type Strategy interface {
	Chunk(ctx context.Context, text string) ([]string, error)
}

// ForName builds the named strategy with default parameters. The embedder is
// only used by the similarity strategy; it may be nil for the others.
func ForName(name string, embedder embedding.Embedder) (Strategy, error) {
	switch name {
	case "fixed":
		return NewFixed(FixedConfig{})
	case "paragraph":
		return NewParagraph(ParagraphConfig{})
	case "sentence", "":
		return NewSentence(SentenceConfig{})
	case "similarity":
		if embedder == nil {
			return nil, fmt.Errorf("%w: similarity strategy requires an embedder", ErrInvalidConfig)
		}
		return NewSimilarity(SimilarityConfig{}, embedder)
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, name)
}
