package handlers

import (
	"context"
	"net/http"
	"time"

	"biolens/internal/contextutil"
	"biolens/internal/vectorstore"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	store        vectorstore.VectorStore
	checkTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store vectorstore.VectorStore) *HealthHandler {
	return &HealthHandler{
		store:        store,
		checkTimeout: 5 * time.Second,
	}
}

// HealthResponse reports overall service health and per-dependency checks.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// ServeHTTP returns 200 when the vector store is reachable and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if _, err := h.store.Stats(checkCtx); err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	} else {
		checks["vector_store"] = "ok"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, r, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}
