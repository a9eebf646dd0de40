package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"biolens/internal/contextutil"
	"biolens/internal/extract"
	"biolens/internal/jobs"
	"biolens/internal/rag"
	"biolens/internal/storage"
)

// Ingester is the part of the core service the upload handler needs.
type Ingester interface {
	Ingest(ctx context.Context, text string, source rag.SourceInfo) (rag.IngestResult, error)
}

// UploadHandler accepts book files and indexes them in the background.
type UploadHandler struct {
	ingester  Ingester
	docs      storage.DocumentStore
	tracker   *jobs.Tracker
	uploadDir string
	maxBytes  int64
	logger    *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(ingester Ingester, docs storage.DocumentStore, tracker *jobs.Tracker, uploadDir string, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		ingester:  ingester,
		docs:      docs,
		tracker:   tracker,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// UploadResponse reports the accepted file and the job to poll for progress.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	JobID    string `json:"job_id"`
}

// ServeHTTP handles multipart uploads of .pdf, .md, and .txt files. The file
// is saved to the upload directory and indexed asynchronously; the response
// carries a job id for status polling.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, r, http.StatusBadRequest, "no file selected")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".pdf", ".md", ".txt":
	default:
		writeError(w, r, http.StatusBadRequest, "only .pdf, .md and .txt files are allowed")
		return
	}

	dstName := uuid.New().String() + "_" + filepath.Base(header.Filename)
	dstPath := filepath.Join(h.uploadDir, dstName)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create upload file", "path", dstPath, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to save file")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(dstPath)
		writeError(w, r, http.StatusInternalServerError, "failed to save file")
		return
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		writeError(w, r, http.StatusInternalServerError, "failed to save file")
		return
	}

	job := h.tracker.Create(header.Filename)
	go h.process(job.ID, dstPath, header.Filename, ext)

	writeJSON(w, r, http.StatusAccepted, UploadResponse{
		Message:  "file uploaded successfully",
		Filename: header.Filename,
		JobID:    job.ID,
	})
}

// process runs the extract-and-index pipeline for one uploaded file. It is
// detached from the request, so it carries its own context and logger.
func (h *UploadHandler) process(jobID, path, filename, ext string) {
	ctx := contextutil.WithLogger(context.Background(), h.logger)
	h.tracker.Start(jobID)

	text, doc, err := h.extractText(path, filename, ext)
	if err != nil {
		h.logger.Error("text extraction failed", "job_id", jobID, "file", filename, "error", err)
		h.tracker.Fail(jobID, fmt.Errorf("extraction failed: %w", err))
		return
	}

	result, err := h.ingester.Ingest(ctx, text, rag.SourceInfo{
		Title:    doc.Title,
		Author:   doc.Author,
		SourceID: filename,
	})
	if err != nil {
		h.logger.Error("indexing failed", "job_id", jobID, "file", filename, "error", err)
		h.tracker.Fail(jobID, fmt.Errorf("indexing failed: %w", err))
		return
	}

	record := &storage.Document{
		ID:         jobID,
		Title:      doc.Title,
		Author:     doc.Author,
		Filename:   filename,
		Pages:      doc.Pages,
		ChunkCount: result.ChunksCreated,
		UploadedAt: time.Now().UTC(),
	}
	if err := h.docs.Insert(ctx, record); err != nil {
		h.logger.Error("failed to record document", "job_id", jobID, "file", filename, "error", err)
	}

	h.logger.Info("book indexed", "job_id", jobID, "file", filename, "chunks", result.ChunksCreated)
	h.tracker.Complete(jobID, result)
}

// extractText pulls plain text out of the saved file based on its extension.
func (h *UploadHandler) extractText(path, filename, ext string) (string, extract.PDFDocument, error) {
	switch ext {
	case ".pdf":
		doc, err := extract.PDFText(path)
		if err != nil {
			return "", extract.PDFDocument{}, err
		}
		if doc.Title == "" {
			doc.Title = filename
		}
		return doc.Text, *doc, nil
	case ".md":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", extract.PDFDocument{}, err
		}
		return extract.MarkdownText(raw), extract.PDFDocument{Title: filename}, nil
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", extract.PDFDocument{}, err
		}
		return string(raw), extract.PDFDocument{Title: filename}, nil
	}
}
