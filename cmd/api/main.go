package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"biolens/internal/chunking"
	"biolens/internal/config"
	"biolens/internal/embedding"
	"biolens/internal/http"
	"biolens/internal/jobs"
	"biolens/internal/rag"
	"biolens/internal/storage"
	"biolens/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the document registry database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)

	ctx := context.Background()

	// Select the vector store backend
	var store vectorstore.VectorStore
	switch cfg.VectorBackend {
	case "memory":
		memStore, err := vectorstore.NewMemoryStore(cfg.VectorSize)
		if err != nil {
			log.Fatalf("Failed to create in-memory vector store: %v", err)
		}
		store = memStore
		slog.Info("Using in-memory vector store", "vector_size", cfg.VectorSize)
	default:
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection, cfg.VectorSize)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := qdrantStore.EnsureCollection(ctx); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		store = qdrantStore
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)
	}

	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)

	strategy, err := chunking.ForName(cfg.ChunkStrategy, embedder)
	if err != nil {
		log.Fatalf("Failed to create chunking strategy: %v", err)
	}
	slog.Info("Chunking strategy selected", "strategy", cfg.ChunkStrategy)

	service := rag.NewService(embedder, store, strategy)
	tracker := jobs.NewTracker()

	deps := &http.Deps{
		Service:   service,
		Store:     store,
		Documents: documentRepo,
		Tracker:   tracker,
		UploadDir: cfg.UploadDir,
		MaxUpload: cfg.MaxUploadMB << 20,
		Logger:    logger,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Embedding configuration", "base_url", cfg.EmbeddingBaseURL, "model", cfg.EmbeddingModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
