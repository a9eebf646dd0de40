package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"biolens/internal/classify"
	"biolens/internal/contextutil"
)

// QdrantStore implements VectorStore backed by a Qdrant collection configured
// for Euclidean distance. Concurrent insert/delete consistency is delegated
// to the Qdrant server.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	vectorSize int
}

// NewQdrantStore creates a Qdrant-backed store. urlStr is the HTTP URL
// ("http://localhost:6333"); the gRPC port is derived from the HTTP port.
func NewQdrantStore(urlStr, collection string, vectorSize int) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			// gRPC port is typically HTTP port + 1.
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
		vectorSize: vectorSize,
	}, nil
}

// EnsureCollection creates the collection if needed and validates the vector
// size when it already exists.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("%w: failed to check collection existence: %v", ErrStore, err)
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", s.collection, "vector_size", s.vectorSize)
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(s.vectorSize),
				Distance: qdrant.Distance_Euclid,
			}),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create collection: %v", ErrStore, err)
		}
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("%w: failed to get collection info: %v", ErrStore, err)
	}

	config := info.GetConfig()
	if config == nil || config.GetParams() == nil {
		return fmt.Errorf("%w: collection config is invalid", ErrStore)
	}
	vectorsConfig := config.GetParams().GetVectorsConfig()
	if vectorsConfig == nil || vectorsConfig.GetParams() == nil {
		return fmt.Errorf("%w: collection vectors config is invalid", ErrStore)
	}
	if actual := int(vectorsConfig.GetParams().GetSize()); actual != s.vectorSize {
		return fmt.Errorf("%w: collection vector size mismatch: expected %d, got %d", ErrStore, s.vectorSize, actual)
	}

	return nil
}

// Insert upserts the chunks with positionally aligned embeddings. Ids are
// derived from chunk content and position; a collision overwrites.
func (s *QdrantStore) Insert(ctx context.Context, chunks []Chunk, vectors [][]float32) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", ErrStore, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(ChunkID(chunk.Text, chunk.Position)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":       chunk.Text,
				"chunk_type": chunk.Type.String(),
				"keywords":   strings.Join(chunk.Keywords, ", "),
				"position":   chunk.Position,
				"source":     chunk.Source,
				"author":     chunk.Author,
				"source_id":  chunk.SourceID,
			}),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", s.collection, "count", len(points), "error", err)
		return fmt.Errorf("%w: failed to upsert points: %v", ErrStore, err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", s.collection, "count", len(points))
	return nil
}

// Query returns up to k nearest neighbors by ascending Euclidean distance,
// optionally restricted to one chunk type.
func (s *QdrantStore) Query(ctx context.Context, vector []float32, k int, typeFilter *classify.ChunkType) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrStore, k)
	}

	limit := uint64(k)
	queryReq := &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if typeFilter != nil {
		queryReq.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("chunk_type", typeFilter.String()),
			},
		}
	}

	scored, err := s.client.Query(ctx, queryReq)
	if err != nil {
		logger.ErrorContext(ctx, "failed to query points", "collection", s.collection, "k", k, "error", err)
		return nil, fmt.Errorf("%w: failed to query points: %v", ErrStore, err)
	}

	results := make([]Result, 0, len(scored))
	for _, point := range scored {
		chunk, err := chunkFromPayload(point.GetPayload())
		if err != nil {
			logger.WarnContext(ctx, "skipping malformed point payload", "error", err)
			continue
		}
		id := ""
		if point.GetId() != nil {
			id = point.GetId().GetUuid()
		}
		results = append(results, Result{
			ID:    id,
			Chunk: chunk,
			// With the Euclid metric the reported score is the raw distance.
			Distance: float64(point.GetScore()),
		})
	}

	logger.DebugContext(ctx, "query completed", "collection", s.collection, "k", k, "results", len(results))
	return results, nil
}

// Stats reports the exact point count plus type/source distributions sampled
// from the first StatsSampleLimit scrolled records.
func (s *QdrantStore) Stats(ctx context.Context) (Stats, error) {
	exact := true
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return Stats{}, fmt.Errorf("%w: failed to count points: %v", ErrStore, err)
	}

	sampleLimit := uint32(StatsSampleLimit)
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Limit:          &sampleLimit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return Stats{}, fmt.Errorf("%w: failed to scroll points: %v", ErrStore, err)
	}

	stats := Stats{
		TotalChunks:        int(count),
		TypeDistribution:   make(map[string]int),
		SourceDistribution: make(map[string]int),
	}
	for _, point := range points {
		chunk, err := chunkFromPayload(point.GetPayload())
		if err != nil {
			continue
		}
		stats.TypeDistribution[chunk.Type.String()]++
		stats.SourceDistribution[chunk.Source]++
	}
	return stats, nil
}

// DeleteAll drops and recreates the collection so it is immediately usable
// for subsequent inserts.
func (s *QdrantStore) DeleteAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("%w: failed to delete collection: %v", ErrStore, err)
	}
	logger.InfoContext(ctx, "deleted collection", "collection", s.collection)

	return s.EnsureCollection(ctx)
}

func chunkFromPayload(payload map[string]*qdrant.Value) (Chunk, error) {
	text := payload["text"].GetStringValue()
	if text == "" {
		return Chunk{}, fmt.Errorf("payload missing text")
	}

	chunkType, err := classify.ParseChunkType(payload["chunk_type"].GetStringValue())
	if err != nil {
		return Chunk{}, err
	}

	var keywords []string
	if raw := payload["keywords"].GetStringValue(); raw != "" {
		keywords = strings.Split(raw, ", ")
	}

	return Chunk{
		Text:     text,
		Type:     chunkType,
		Keywords: keywords,
		Position: int(payload["position"].GetIntegerValue()),
		Source:   payload["source"].GetStringValue(),
		Author:   payload["author"].GetStringValue(),
		SourceID: payload["source_id"].GetStringValue(),
	}, nil
}
