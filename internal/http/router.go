package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"biolens/internal/handlers"
	"biolens/internal/jobs"
	"biolens/internal/rag"
	"biolens/internal/storage"
	"biolens/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Service   *rag.Service
	Store     vectorstore.VectorStore
	Documents storage.DocumentStore
	Tracker   *jobs.Tracker
	UploadDir string
	MaxUpload int64
	Logger    *slog.Logger
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORS)

	uploadHandler := handlers.NewUploadHandler(deps.Service, deps.Documents, deps.Tracker, deps.UploadDir, deps.MaxUpload, deps.Logger)
	askHandler := handlers.NewAskHandler(deps.Service)
	statsHandler := handlers.NewStatsHandler(deps.Service)
	clearHandler := handlers.NewClearHandler(deps.Service, deps.Documents)
	booksHandler := handlers.NewBooksHandler(deps.Documents)
	statusHandler := handlers.NewStatusHandler(deps.Tracker)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	r.Method(http.MethodGet, "/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/upload", uploadHandler)
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
		r.Method(http.MethodDelete, "/clear", clearHandler)
		r.Method(http.MethodGet, "/books", booksHandler)
		r.Method(http.MethodGet, "/status/{id}", statusHandler)
	})

	return r
}
