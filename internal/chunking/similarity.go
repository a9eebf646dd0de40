package chunking

import (
	"context"
	"fmt"
	"math"
	"strings"

	"biolens/internal/embedding"
	"biolens/internal/textproc"
)

const defaultSimilarityThreshold = 0.75

// SimilarityConfig parameterizes embedding-based grouping. A zero Threshold
// takes the default 0.75.
type SimilarityConfig struct {
	Threshold float64
}

// SimilarityStrategy groups consecutive sentences by embedding similarity.
// A new chunk starts whenever cosine similarity between the current chunk's
// representative embedding and the next sentence drops below the threshold.
// The representative is the first sentence's embedding of the chunk, not a
// running average; that tie-break is part of the contract.
type SimilarityStrategy struct {
	threshold float64
	embedder  embedding.Embedder
}

// NewSimilarity validates the config and builds a similarity strategy.
func NewSimilarity(cfg SimilarityConfig, embedder embedding.Embedder) (*SimilarityStrategy, error) {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = defaultSimilarityThreshold
	}
	if threshold <= -1 || threshold >= 1 {
		return nil, fmt.Errorf("%w: similarity threshold %v outside (-1, 1)", ErrInvalidConfig, threshold)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: similarity strategy requires an embedder", ErrInvalidConfig)
	}
	return &SimilarityStrategy{threshold: threshold, embedder: embedder}, nil
}

// Chunk embeds every sentence in one gateway call, then walks the sequence
// grouping sentences whose similarity to the chunk representative stays at or
// above the threshold. Empty input returns an empty sequence without invoking
// the gateway.
func (s *SimilarityStrategy) Chunk(ctx context.Context, text string) ([]string, error) {
	sentences := textproc.SplitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.EmbedTexts(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("failed to embed sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(sentences), len(vectors))
	}

	var chunks []string
	group := []string{sentences[0]}
	representative := vectors[0]

	for i := 1; i < len(sentences); i++ {
		if cosineSimilarity(representative, vectors[i]) < s.threshold {
			chunks = append(chunks, strings.Join(group, " "))
			group = []string{sentences[i]}
			representative = vectors[i]
			continue
		}
		group = append(group, sentences[i])
	}
	chunks = append(chunks, strings.Join(group, " "))

	return chunks, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
