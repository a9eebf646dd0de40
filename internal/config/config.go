package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
	VectorSize         int

	// VectorBackend selects the store: "qdrant" or "memory".
	VectorBackend    string
	QdrantURL        string
	QdrantCollection string

	// ChunkStrategy selects the chunking strategy by name
	// (fixed, paragraph, sentence, similarity).
	ChunkStrategy string

	DBPath      string
	UploadDir   string
	APIPort     string
	LogLevel    slog.Level
	LogFormat   string
	MaxUploadMB int64
}

// Load reads configuration from environment variables, applying defaults for
// optional fields and validating the rest. A .env file in the working
// directory or project root is loaded first; real environment variables take
// precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
		VectorBackend:      getEnv("VECTOR_BACKEND", "qdrant"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "biolens"),
		ChunkStrategy:      getEnv("CHUNK_STRATEGY", "sentence"),
		DBPath:             getEnv("DB_PATH", "./data/biolens.db"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// Must match the output vector size of the embeddings model
	// (all-MiniLM-L6-v2 produces 384 dimensions).
	vectorSizeStr := getEnv("VECTOR_SIZE", "384")
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}
	cfg.VectorSize = vectorSize

	switch cfg.VectorBackend {
	case "qdrant", "memory":
	default:
		return nil, fmt.Errorf("VECTOR_BACKEND must be qdrant or memory, got %q", cfg.VectorBackend)
	}

	maxUploadStr := getEnv("MAX_UPLOAD_MB", "50")
	maxUpload, err := strconv.ParseInt(maxUploadStr, 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer")
	}
	cfg.MaxUploadMB = maxUpload

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
