package chunking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewParagraphValidation(t *testing.T) {
	if _, err := NewParagraph(ParagraphConfig{}); err != nil {
		t.Fatalf("defaults should be valid, got %v", err)
	}
	if _, err := NewParagraph(ParagraphConfig{MinLength: 500, MaxSize: 100}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("min >= max should fail with ErrInvalidConfig, got %v", err)
	}
}

func TestParagraphChunk(t *testing.T) {
	keep := strings.Repeat("cell biology ", 10) // 130 runes, inside bounds
	short := "too short"

	text := strings.TrimSpace(keep) + "\n\n" + short + "\n\n" + strings.TrimSpace(keep)

	s, err := NewParagraph(ParagraphConfig{})
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := s.Chunk(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks (short paragraph dropped), got %d: %#v", len(chunks), chunks)
	}
	for i, c := range chunks {
		if c != strings.TrimSpace(keep) {
			t.Errorf("chunk %d = %q", i, c)
		}
	}
}

func TestParagraphChunkOversizedFallsBackToSentences(t *testing.T) {
	sentence := strings.Repeat("w", 180) + "."
	oversized := sentence + " " + sentence + " " + sentence + " " + sentence // ~724 runes

	s, err := NewParagraph(ParagraphConfig{})
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := s.Chunk(context.Background(), oversized)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) < 2 {
		t.Fatalf("oversized paragraph should split into sentence chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 500 {
			t.Errorf("chunk %d length %d exceeds max 500", i, n)
		}
	}
}

func TestParagraphChunkEmptyInput(t *testing.T) {
	s, err := NewParagraph(ParagraphConfig{})
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := s.Chunk(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %#v", chunks)
	}
}
