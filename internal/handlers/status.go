package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"biolens/internal/jobs"
)

// StatusHandler reports the state of a background ingestion job.
type StatusHandler struct {
	tracker *jobs.Tracker
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(tracker *jobs.Tracker) *StatusHandler {
	return &StatusHandler{tracker: tracker}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := h.tracker.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, r, http.StatusOK, job)
}
