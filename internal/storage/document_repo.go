package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks biolens/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Document is one ingested book in the registry. The registry backs the book
// listing and survives restarts; the chunk payloads themselves live in the
// vector store.
type Document struct {
	ID         string
	Title      string
	Author     string
	Filename   string
	Pages      int
	ChunkCount int
	UploadedAt time.Time
}

// DocumentStore defines the interface for the document registry.
type DocumentStore interface {
	// Insert records a newly ingested document, assigning an id if empty.
	Insert(ctx context.Context, doc *Document) error
	// GetByID gets a document by id. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Document, error)
	// ListAll returns all documents, newest first.
	ListAll(ctx context.Context) ([]*Document, error)
	// DeleteAll empties the registry (paired with clearing the vector store).
	DeleteAll(ctx context.Context) error
}

// DocumentRepo implements DocumentStore on SQLite.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert records a newly ingested document.
func (r *DocumentRepo) Insert(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, author, filename, pages, chunk_count) VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Author, doc.Filename, doc.Pages, doc.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID gets a document by id. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, author, filename, pages, chunk_count, uploaded_at FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// ListAll returns all documents, newest first.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]*Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, author, filename, pages, chunk_count, uploaded_at FROM documents ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return docs, nil
}

// DeleteAll empties the registry.
func (r *DocumentRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var doc Document
	var uploadedAtStr string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Author, &doc.Filename, &doc.Pages, &doc.ChunkCount, &uploadedAtStr); err != nil {
		return nil, err
	}

	uploadedAt, err := time.Parse("2006-01-02 15:04:05", uploadedAtStr)
	if err != nil {
		// SQLite may store timestamps in RFC3339 depending on how they
		// were written.
		uploadedAt, err = time.Parse(time.RFC3339, uploadedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse uploaded_at timestamp: %w", err)
		}
	}
	doc.UploadedAt = uploadedAt
	return &doc, nil
}
