package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"biolens/internal/jobs"
	"biolens/internal/rag"
	"biolens/internal/storage/mocks"
)

type stubIngester struct {
	result rag.IngestResult
	err    error
	got    string
}

func (s *stubIngester) Ingest(_ context.Context, text string, _ rag.SourceInfo) (rag.IngestResult, error) {
	s.got = text
	return s.result, s.err
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

func waitForJob(t *testing.T, tracker *jobs.Tracker, id string) jobs.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := tracker.Get(id)
		if !ok {
			t.Fatalf("job %s missing", id)
		}
		if job.Status == jobs.StatusDone || job.Status == jobs.StatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return jobs.Job{}
}

func TestUploadHandlerTextFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mocks.NewMockDocumentStore(ctrl)
	docs.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	ingester := &stubIngester{result: rag.IngestResult{ChunksCreated: 3, TypeCounts: map[string]int{"concept": 3}}}
	tracker := jobs.NewTracker()
	handler := NewUploadHandler(ingester, docs, tracker, t.TempDir(), 10<<20, slog.Default())

	body, contentType := multipartBody(t, "notes.txt", "The cell membrane regulates transport across the boundary.")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.JobID == "" || resp.Filename != "notes.txt" {
		t.Errorf("response = %+v", resp)
	}

	job := waitForJob(t, tracker, resp.JobID)
	if job.Status != jobs.StatusDone {
		t.Fatalf("job status = %v, error = %q", job.Status, job.Error)
	}
	if job.Result == nil || job.Result.ChunksCreated != 3 {
		t.Errorf("job result = %+v", job.Result)
	}
	if ingester.got == "" {
		t.Error("ingester never received the file text")
	}
}

func TestUploadHandlerIngestFailureMarksJobFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mocks.NewMockDocumentStore(ctrl)
	// No registry insert on failure.

	ingester := &stubIngester{err: errors.New("gateway unavailable")}
	tracker := jobs.NewTracker()
	handler := NewUploadHandler(ingester, docs, tracker, t.TempDir(), 10<<20, slog.Default())

	body, contentType := multipartBody(t, "notes.md", "# Heading\n\nSome biology prose.")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	job := waitForJob(t, tracker, resp.JobID)
	if job.Status != jobs.StatusFailed {
		t.Errorf("job status = %v, want failed", job.Status)
	}
	if job.Error == "" {
		t.Error("failed job should carry the error message")
	}
}

func TestUploadHandlerRejectsUnknownExtension(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mocks.NewMockDocumentStore(ctrl)
	tracker := jobs.NewTracker()
	handler := NewUploadHandler(&stubIngester{}, docs, tracker, t.TempDir(), 10<<20, slog.Default())

	body, contentType := multipartBody(t, "image.png", "not text")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadHandlerRejectsMissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mocks.NewMockDocumentStore(ctrl)
	tracker := jobs.NewTracker()
	handler := NewUploadHandler(&stubIngester{}, docs, tracker, t.TempDir(), 10<<20, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("no multipart"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
