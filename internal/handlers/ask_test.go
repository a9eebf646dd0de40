package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"biolens/internal/classify"
	"biolens/internal/rag"
)

type stubRetriever struct {
	passages   []rag.Passage
	err        error
	gotQuery   string
	gotK       int
	gotFilter  *classify.ChunkType
	wasInvoked bool
}

func (s *stubRetriever) Retrieve(_ context.Context, query string, k int, typeFilter *classify.ChunkType) ([]rag.Passage, error) {
	s.wasInvoked = true
	s.gotQuery = query
	s.gotK = k
	s.gotFilter = typeFilter
	return s.passages, s.err
}

func postAsk(t *testing.T, handler *AskHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAskHandler(t *testing.T) {
	retriever := &stubRetriever{
		passages: []rag.Passage{
			{Text: "Mitosis divides one nucleus into two.", Source: "Biology 101", Type: "concept", Confidence: 0.82, Distance: 0.3},
			{Text: "What triggers anaphase?", Source: "Biology 101", Type: "question", Confidence: 0.9, Distance: 0.7},
		},
	}
	handler := NewAskHandler(retriever)

	rec := postAsk(t, handler, `{"question": "how does mitosis work", "n_results": 2}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Question != "how does mitosis work" {
		t.Errorf("question = %q", resp.Question)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	// Short best passage is returned verbatim, no prefix.
	if resp.Answer != "Mitosis divides one nucleus into two." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if retriever.gotK != 2 || retriever.gotFilter != nil {
		t.Errorf("retriever called with k=%d filter=%v", retriever.gotK, retriever.gotFilter)
	}
}

func TestAskHandlerTruncatesLongAnswer(t *testing.T) {
	long := strings.Repeat("x", 400)
	retriever := &stubRetriever{passages: []rag.Passage{{Text: long}}}
	handler := NewAskHandler(retriever)

	rec := postAsk(t, handler, `{"question": "q"}`)

	var resp AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := "Based on biology books: " + long[:300] + "..."
	if resp.Answer != want {
		t.Errorf("answer = %q, want truncated with prefix", resp.Answer)
	}
}

func TestAskHandlerTruncatesByRunes(t *testing.T) {
	// Multi-byte text must be cut on a character boundary, not mid-rune.
	long := strings.Repeat("ü", 400)
	retriever := &stubRetriever{passages: []rag.Passage{{Text: long}}}
	handler := NewAskHandler(retriever)

	rec := postAsk(t, handler, `{"question": "q"}`)

	var resp AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := "Based on biology books: " + strings.Repeat("ü", 300) + "..."
	if resp.Answer != want {
		t.Errorf("answer = %q, want 300-character snippet", resp.Answer)
	}
	if strings.ContainsRune(resp.Answer, '�') {
		t.Error("answer contains a replacement character")
	}
}

func TestAskHandlerNoResults(t *testing.T) {
	handler := NewAskHandler(&stubRetriever{})

	rec := postAsk(t, handler, `{"question": "anything"}`)

	var resp AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Answer, "couldn't find") {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestAskHandlerTypeFilter(t *testing.T) {
	retriever := &stubRetriever{}
	handler := NewAskHandler(retriever)

	rec := postAsk(t, handler, `{"question": "q", "chunk_type": "question"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if retriever.gotFilter == nil || *retriever.gotFilter != classify.Question {
		t.Errorf("filter = %v, want Question", retriever.gotFilter)
	}
}

func TestAskHandlerBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{`},
		{name: "missing question", body: `{}`},
		{name: "unknown chunk type", body: `{"question": "q", "chunk_type": "poem"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever := &stubRetriever{}
			rec := postAsk(t, NewAskHandler(retriever), tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAskHandlerEmptyQueryFromService(t *testing.T) {
	// The service may still reject a whitespace-only question.
	retriever := &stubRetriever{err: rag.ErrEmptyQuery}
	rec := postAsk(t, NewAskHandler(retriever), `{"question": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAskHandlerServiceFailure(t *testing.T) {
	retriever := &stubRetriever{err: errors.New("store down")}
	rec := postAsk(t, NewAskHandler(retriever), `{"question": "q"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" {
		t.Error("error body should carry a message")
	}
}
