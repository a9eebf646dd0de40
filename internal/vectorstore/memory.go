package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"biolens/internal/classify"
)

type memoryRecord struct {
	id     string
	chunk  Chunk
	vector []float32
}

// MemoryStore is a brute-force in-memory VectorStore using Euclidean
// distance. A single RWMutex serializes Insert against DeleteAll so a delete
// concurrent with an in-flight insert cannot corrupt the collection.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	records   []memoryRecord
	byID      map[string]int
}

// NewMemoryStore creates an empty store expecting vectors of the given
// dimension.
func NewMemoryStore(dimension int) (*MemoryStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: invalid dimension %d", ErrStore, dimension)
	}
	return &MemoryStore{
		dimension: dimension,
		byID:      make(map[string]int),
	}, nil
}

// Insert stores the chunks with their embeddings. An id collision overwrites
// the earlier record in place.
func (s *MemoryStore) Insert(_ context.Context, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", ErrStore, len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != s.dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, expected %d", ErrStore, i, len(v), s.dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, chunk := range chunks {
		rec := memoryRecord{
			id:     ChunkID(chunk.Text, chunk.Position),
			chunk:  chunk,
			vector: vectors[i],
		}
		if j, ok := s.byID[rec.id]; ok {
			s.records[j] = rec
			continue
		}
		s.byID[rec.id] = len(s.records)
		s.records = append(s.records, rec)
	}
	return nil
}

// Query scans all records, filters by type if requested, and returns up to k
// results by ascending Euclidean distance.
func (s *MemoryStore) Query(_ context.Context, vector []float32, k int, typeFilter *classify.ChunkType) ([]Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrStore, k)
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has dimension %d, expected %d", ErrStore, len(vector), s.dimension)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Result, 0, len(s.records))
	for _, rec := range s.records {
		if typeFilter != nil && rec.chunk.Type != *typeFilter {
			continue
		}
		results = append(results, Result{
			ID:       rec.id,
			Chunk:    rec.chunk,
			Distance: euclideanDistance(vector, rec.vector),
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Stats reports the exact total plus type/source distributions over at most
// StatsSampleLimit records.
func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalChunks:        len(s.records),
		TypeDistribution:   make(map[string]int),
		SourceDistribution: make(map[string]int),
	}

	sample := s.records
	if len(sample) > StatsSampleLimit {
		sample = sample[:StatsSampleLimit]
	}
	for _, rec := range sample {
		stats.TypeDistribution[rec.chunk.Type.String()]++
		stats.SourceDistribution[rec.chunk.Source]++
	}
	return stats, nil
}

// DeleteAll drops every record. The store accepts inserts immediately after.
func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.byID = make(map[string]int)
	return nil
}

func euclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
