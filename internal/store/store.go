// Package store persists segmented documents and their chunks.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgallion1/lexchunk/internal/document"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable marks transient backend failures worth retrying.
	ErrUnavailable = errors.New("store unavailable")
)

// Summary describes a stored document without its text.
type Summary struct {
	ID          string    `json:"doc_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChunkStore is the sink for segmented documents. Saving a document
// replaces any chunks previously stored for it.
type ChunkStore interface {
	SaveDocument(ctx context.Context, doc *document.Document, chunks []document.Chunk) error
	Document(ctx context.Context, id string) (*document.Document, error)
	FindByHash(ctx context.Context, hash string) (*document.Document, error)
	ListDocuments(ctx context.Context) ([]Summary, error)
	Chunks(ctx context.Context, docID string) ([]document.Chunk, error)
	DeleteDocument(ctx context.Context, id string) (int, error)
	Close() error
}
