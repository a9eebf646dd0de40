package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "biolens.db"))
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.EmbeddingModelName != "all-MiniLM-L6-v2" {
		t.Errorf("EmbeddingModelName = %q", cfg.EmbeddingModelName)
	}
	if cfg.VectorSize != 384 {
		t.Errorf("VectorSize = %d, want 384", cfg.VectorSize)
	}
	if cfg.VectorBackend != "qdrant" {
		t.Errorf("VectorBackend = %q", cfg.VectorBackend)
	}
	if cfg.QdrantCollection != "biolens" {
		t.Errorf("QdrantCollection = %q", cfg.QdrantCollection)
	}
	if cfg.ChunkStrategy != "sentence" {
		t.Errorf("ChunkStrategy = %q", cfg.ChunkStrategy)
	}
	if cfg.APIPort != "9000" {
		t.Errorf("APIPort = %q", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.MaxUploadMB != 50 {
		t.Errorf("MaxUploadMB = %d", cfg.MaxUploadMB)
	}
}

func TestLoadOverrides(t *testing.T) {
	setTestDirs(t)
	t.Setenv("VECTOR_BACKEND", "memory")
	t.Setenv("VECTOR_SIZE", "768")
	t.Setenv("CHUNK_STRATEGY", "paragraph")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.VectorBackend != "memory" {
		t.Errorf("VectorBackend = %q", cfg.VectorBackend)
	}
	if cfg.VectorSize != 768 {
		t.Errorf("VectorSize = %d", cfg.VectorSize)
	}
	if cfg.ChunkStrategy != "paragraph" {
		t.Errorf("ChunkStrategy = %q", cfg.ChunkStrategy)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric vector size", key: "VECTOR_SIZE", value: "abc"},
		{name: "zero vector size", key: "VECTOR_SIZE", value: "0"},
		{name: "unknown backend", key: "VECTOR_BACKEND", value: "chroma"},
		{name: "bad log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "negative upload limit", key: "MAX_UPLOAD_MB", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTestDirs(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}
