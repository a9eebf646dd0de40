package rag

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"biolens/internal/chunking"
	"biolens/internal/classify"
	"biolens/internal/contextutil"
	"biolens/internal/embedding"
	"biolens/internal/scoring"
	"biolens/internal/textproc"
	"biolens/internal/vectorstore"
)

const (
	// minChunkLength drops fragments too short to be a useful passage.
	minChunkLength = 50

	defaultK = 5
	maxK     = 20
)

// Service is the retrieval core: it turns document text into classified,
// embedded chunks and answers queries with confidence-scored passages. All
// collaborators are injected; the service holds no global state.
type Service struct {
	embedder embedding.Embedder
	store    vectorstore.VectorStore
	strategy chunking.Strategy
}

// NewService wires a retrieval service from its collaborators.
func NewService(embedder embedding.Embedder, store vectorstore.VectorStore, strategy chunking.Strategy) *Service {
	return &Service{
		embedder: embedder,
		store:    store,
		strategy: strategy,
	}
}

// Ingest runs the full pipeline over one document: normalize, chunk,
// classify, embed, insert. Stages fail fast; an embedding failure leaves
// nothing partially inserted because the single store insert happens last.
func (s *Service) Ingest(ctx context.Context, documentText string, source SourceInfo) (IngestResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	normalized := textproc.NormalizeBlocks(documentText)
	if normalized == "" {
		return IngestResult{}, ErrEmptyInput
	}

	rawChunks, err := s.strategy.Chunk(ctx, normalized)
	if err != nil {
		return IngestResult{}, fmt.Errorf("chunking failed: %w", err)
	}

	var chunks []vectorstore.Chunk
	for i, text := range rawChunks {
		text = strings.TrimSpace(text)
		if utf8.RuneCountInString(text) < minChunkLength {
			continue
		}
		chunks = append(chunks, vectorstore.Chunk{
			Text:     text,
			Type:     classify.Classify(text),
			Keywords: classify.Keywords(text),
			Position: i,
			Source:   source.Title,
			Author:   source.Author,
			SourceID: source.SourceID,
		})
	}

	if len(chunks) == 0 {
		return IngestResult{}, ErrNoChunksProduced
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return IngestResult{}, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return IngestResult{}, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vectors))
	}

	if err := s.store.Insert(ctx, chunks, vectors); err != nil {
		return IngestResult{}, fmt.Errorf("failed to insert chunks: %w", err)
	}

	result := IngestResult{
		ChunksCreated: len(chunks),
		TypeCounts:    make(map[string]int),
	}
	for _, chunk := range chunks {
		result.TypeCounts[chunk.Type.String()]++
	}

	logger.InfoContext(ctx, "document ingested",
		"source", source.Title,
		"chunks", result.ChunksCreated,
		"type_counts", result.TypeCounts,
	)
	return result, nil
}

// Retrieve embeds the query and returns up to k nearest passages, each
// annotated with a confidence score. Ordering is by ascending store distance;
// confidence never re-sorts the results.
func (s *Service) Retrieve(ctx context.Context, query string, k int, typeFilter *classify.ChunkType) ([]Passage, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = defaultK
	}
	if k > maxK {
		k = maxK
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := s.store.Query(ctx, vectors[0], k, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query store: %w", err)
	}

	passages := make([]Passage, 0, len(results))
	for _, result := range results {
		passages = append(passages, Passage{
			Text:       result.Chunk.Text,
			Source:     result.Chunk.Source,
			Type:       result.Chunk.Type.String(),
			Keywords:   result.Chunk.Keywords,
			Confidence: scoring.Confidence(result.Distance, result.Chunk.Type, result.Chunk.Keywords, query, result.Chunk.Text),
			Distance:   result.Distance,
		})
	}

	logger.DebugContext(ctx, "query completed", "query", query, "k", k, "results", len(passages))
	return passages, nil
}

// Stats reports collection counters from the vector store.
func (s *Service) Stats(ctx context.Context) (vectorstore.Stats, error) {
	return s.store.Stats(ctx)
}

// ClearAll empties the collection. The store is immediately usable for new
// ingests afterwards.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.store.DeleteAll(ctx)
}
