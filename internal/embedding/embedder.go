package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks biolens/internal/embedding Embedder

import (
	"context"
	"errors"
)

// ErrGatewayUnavailable is returned when the embedding backend is unreachable
// or rejects the request. Callers must surface this error rather than
// substituting zero vectors.
var ErrGatewayUnavailable = errors.New("embedding gateway unavailable")

// Embedder maps texts to fixed-dimension vectors. Implementations are
// stateless; identical text yields a stable vector within a process for a
// fixed model version. The batch signature exists so ingestion can embed all
// chunks of a document in one call.
type Embedder interface {
	// EmbedTexts returns one vector per input text, each of Dimension() size.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the fixed output vector size of the configured model.
	Dimension() int
}
