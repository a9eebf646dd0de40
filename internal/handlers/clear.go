package handlers

import (
	"context"
	"net/http"

	"biolens/internal/contextutil"
	"biolens/internal/storage"
)

// Clearer is the part of the core service the clear handler needs.
type Clearer interface {
	ClearAll(ctx context.Context) error
}

// ClearHandler wipes the vector index and the document registry.
type ClearHandler struct {
	clearer Clearer
	docs    storage.DocumentStore
}

// NewClearHandler creates a new ClearHandler.
func NewClearHandler(clearer Clearer, docs storage.DocumentStore) *ClearHandler {
	return &ClearHandler{clearer: clearer, docs: docs}
}

func (h *ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := h.clearer.ClearAll(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to clear index", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to clear index")
		return
	}
	if err := h.docs.DeleteAll(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to clear document registry", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to clear document registry")
		return
	}

	logger.InfoContext(ctx, "index cleared")
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "index cleared"})
}
