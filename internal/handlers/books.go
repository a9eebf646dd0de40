package handlers

import (
	"net/http"
	"time"

	"biolens/internal/contextutil"
	"biolens/internal/storage"
)

// BooksHandler lists the indexed books from the document registry.
type BooksHandler struct {
	docs storage.DocumentStore
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(docs storage.DocumentStore) *BooksHandler {
	return &BooksHandler{docs: docs}
}

// BookInfo is one indexed book in the listing.
type BookInfo struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author,omitempty"`
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// BooksResponse is the HTTP response payload for the book listing.
type BooksResponse struct {
	Books []BookInfo `json:"books"`
}

func (h *BooksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := h.docs.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list books", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to list books")
		return
	}

	books := make([]BookInfo, 0, len(docs))
	for _, doc := range docs {
		books = append(books, BookInfo{
			ID:         doc.ID,
			Title:      doc.Title,
			Author:     doc.Author,
			Filename:   doc.Filename,
			Pages:      doc.Pages,
			ChunkCount: doc.ChunkCount,
			UploadedAt: doc.UploadedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, BooksResponse{Books: books})
}
