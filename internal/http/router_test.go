package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"biolens/internal/chunking"
	"biolens/internal/jobs"
	"biolens/internal/rag"
	"biolens/internal/storage"
	"biolens/internal/vectorstore"
)

// fixedEmbedder returns the same vector for every text, which is enough to
// drive the pipeline end to end through the router.
type fixedEmbedder struct {
	dim int
}

func (e fixedEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, e.dim)
		vec[0] = 1
		out[i] = vec
	}
	return out, nil
}

func (e fixedEmbedder) Dimension() int { return e.dim }

func newTestRouter(t *testing.T) nethttp.Handler {
	t.Helper()

	store, err := vectorstore.NewMemoryStore(4)
	if err != nil {
		t.Fatal(err)
	}
	strategy, err := chunking.NewSentence(chunking.SentenceConfig{})
	if err != nil {
		t.Fatal(err)
	}

	db, err := storage.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatal(err)
	}

	service := rag.NewService(fixedEmbedder{dim: 4}, store, strategy)
	return NewRouter(&Deps{
		Service:   service,
		Store:     store,
		Documents: storage.NewDocumentRepo(db),
		Tracker:   jobs.NewTracker(),
		UploadDir: t.TempDir(),
		MaxUpload: 10 << 20,
		Logger:    slog.Default(),
	})
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusOK {
		t.Errorf("GET /health = %d, want 200", rec.Code)
	}
}

func TestRouterStatsEmpty(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusOK {
		t.Fatalf("GET /api/stats = %d", rec.Code)
	}
	var resp struct {
		TotalChunks int `json:"total_chunks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalChunks != 0 {
		t.Errorf("TotalChunks = %d, want 0", resp.TotalChunks)
	}
}

func TestRouterAskEmptyCollection(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"question": "what is a cell"}`)
	req := httptest.NewRequest(nethttp.MethodPost, "/api/ask", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusOK {
		t.Fatalf("POST /api/ask = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results from an empty collection, got %d", len(resp.Results))
	}
}

func TestRouterAskRequiresQuestion(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/api/ask", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusBadRequest {
		t.Errorf("POST /api/ask without question = %d, want 400", rec.Code)
	}
}

func TestRouterBooksEmpty(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusOK {
		t.Errorf("GET /api/books = %d, want 200", rec.Code)
	}
}

func TestRouterClear(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodDelete, "/api/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusOK {
		t.Errorf("DELETE /api/clear = %d, want 200", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusNotFound {
		t.Errorf("unknown route = %d, want 404", rec.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodOptions, "/api/ask", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusNoContent {
		t.Errorf("preflight = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
