package handlers

import (
	"context"
	"net/http"

	"biolens/internal/contextutil"
	"biolens/internal/vectorstore"
)

// StatsProvider is the part of the core service the stats handler needs.
type StatsProvider interface {
	Stats(ctx context.Context) (vectorstore.Stats, error)
}

// StatsHandler reports collection-level index statistics.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// StatsResponse is the HTTP response payload for index statistics. The
// distributions are estimated from a bounded sample of stored chunks.
type StatsResponse struct {
	TotalChunks        int            `json:"total_chunks"`
	TypeDistribution   map[string]int `json:"type_distribution"`
	SourceDistribution map[string]int `json:"source_distribution"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	stats, err := h.provider.Stats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read index stats", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to read stats")
		return
	}

	writeJSON(w, r, http.StatusOK, StatsResponse{
		TotalChunks:        stats.TotalChunks,
		TypeDistribution:   stats.TypeDistribution,
		SourceDistribution: stats.SourceDistribution,
	})
}
