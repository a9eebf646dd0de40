package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"biolens/internal/classify"
	"biolens/internal/contextutil"
	"biolens/internal/rag"
)

const answerSnippetLength = 300

// Retriever is the part of the core service the ask handler needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, typeFilter *classify.ChunkType) ([]rag.Passage, error)
}

// AskHandler answers free-text questions with confidence-scored passages.
type AskHandler struct {
	retriever Retriever
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(retriever Retriever) *AskHandler {
	return &AskHandler{retriever: retriever}
}

// AskRequest is the HTTP request payload for questions.
type AskRequest struct {
	Question string `json:"question"`
	// ChunkType optionally restricts results to one category
	// (concept, question, application).
	ChunkType string `json:"chunk_type,omitempty"`
	NResults  int    `json:"n_results,omitempty"`
}

// AskResponse is the HTTP response payload for questions.
type AskResponse struct {
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Results  []rag.Passage `json:"results"`
}

// ServeHTTP handles POST requests with a question and optional type filter.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Question == "" {
		writeError(w, r, http.StatusBadRequest, "question is required")
		return
	}

	var typeFilter *classify.ChunkType
	if req.ChunkType != "" {
		parsed, err := classify.ParseChunkType(req.ChunkType)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "chunk_type must be one of concept, question, application")
			return
		}
		typeFilter = &parsed
	}

	passages, err := h.retriever.Retrieve(ctx, req.Question, req.NResults, typeFilter)
	if err != nil {
		if errors.Is(err, rag.ErrEmptyQuery) {
			writeError(w, r, http.StatusBadRequest, "question is required")
			return
		}
		logger.ErrorContext(ctx, "retrieve failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, r, http.StatusOK, AskResponse{
		Question: req.Question,
		Answer:   extractiveAnswer(passages),
		Results:  passages,
	})
}

// extractiveAnswer builds the answer from the best-matching passage: no
// generation step, just the top chunk truncated to a readable snippet.
func extractiveAnswer(passages []rag.Passage) string {
	if len(passages) == 0 {
		return "I couldn't find relevant information in books."
	}
	best := []rune(passages[0].Text)
	if len(best) > answerSnippetLength {
		return "Based on biology books: " + string(best[:answerSnippetLength]) + "..."
	}
	return passages[0].Text
}
