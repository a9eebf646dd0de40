package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks biolens/internal/vectorstore VectorStore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"biolens/internal/classify"
)

// ErrStore is the base error for persistence-layer failures, including write
// conflicts and misaligned insert batches.
var ErrStore = errors.New("vector store error")

// StatsSampleLimit bounds how many records the distribution stats are
// computed over. Distributions are a sample, not an exact scan; the total
// count is exact.
const StatsSampleLimit = 100

// Chunk is a contiguous span of source text with its ingestion-time metadata.
// Chunks are immutable once stored and are destroyed only by DeleteAll.
type Chunk struct {
	Text     string
	Type     classify.ChunkType
	Keywords []string
	Position int
	Source   string
	Author   string
	// SourceID ties the chunk back to the uploaded file (its stored
	// filename), independent of the display title in Source.
	SourceID string
}

// Result is one nearest-neighbor hit: the stored chunk plus its raw distance
// from the query vector under the store's metric (Euclidean/L2 here, lower is
// closer).
type Result struct {
	ID       string
	Chunk    Chunk
	Distance float64
}

// Stats aggregates collection-level counters. TotalChunks is exact; the
// distributions are computed over at most StatsSampleLimit records.
type Stats struct {
	TotalChunks        int
	TypeDistribution   map[string]int
	SourceDistribution map[string]int
}

// VectorStore persists chunks with their embeddings and answers
// nearest-neighbor queries. Implementations serialize Insert against
// DeleteAll; Query may run concurrently with Insert and sees a consistent
// snapshot.
type VectorStore interface {
	// Insert stores the chunks with positionally aligned embeddings. Both
	// slices must be the same length. An id colliding with an existing
	// record silently overwrites it.
	Insert(ctx context.Context, chunks []Chunk, vectors [][]float32) error

	// Query returns up to k nearest neighbors by ascending distance. When
	// typeFilter is non-nil only chunks of that type are eligible, and k
	// applies after filtering. Fewer than k results (possibly zero) is not
	// an error.
	Query(ctx context.Context, vector []float32, k int, typeFilter *classify.ChunkType) ([]Result, error)

	// Stats reports the collection counters.
	Stats(ctx context.Context) (Stats, error)

	// DeleteAll irreversibly empties the collection. The fresh collection
	// is immediately usable for subsequent inserts.
	DeleteAll(ctx context.Context) error
}

// ChunkID derives the stored id from chunk content and position. Hashing
// content plus position reduces collision risk but does not eliminate it;
// a collision silently overwrites the earlier record.
func ChunkID(text string, position int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d:%s", position, text))).String()
}
