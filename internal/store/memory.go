package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/lexchunk/internal/document"
)

// MemStore is a process-local ChunkStore for ephemeral runs and tests.
type MemStore struct {
	mu      sync.RWMutex
	docs    map[string]memDoc
	byHash  map[string]string
	chunks  map[string][]document.Chunk
	nowFunc func() time.Time
}

type memDoc struct {
	doc       document.Document
	createdAt time.Time
}

var _ ChunkStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		docs:    make(map[string]memDoc),
		byHash:  make(map[string]string),
		chunks:  make(map[string][]document.Chunk),
		nowFunc: time.Now,
	}
}

func (s *MemStore) SaveDocument(_ context.Context, doc *document.Document, chunks []document.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	createdAt := s.nowFunc().UTC()
	if old, ok := s.docs[doc.ID]; ok {
		createdAt = old.createdAt
		delete(s.byHash, old.doc.ContentHash)
	}
	s.docs[doc.ID] = memDoc{doc: *doc, createdAt: createdAt}
	s.byHash[doc.ContentHash] = doc.ID
	s.chunks[doc.ID] = append([]document.Chunk(nil), chunks...)
	return nil
}

func (s *MemStore) Document(_ context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	doc := d.doc
	return &doc, nil
}

func (s *MemStore) FindByHash(ctx context.Context, hash string) (*document.Document, error) {
	s.mu.RLock()
	id, ok := s.byHash[hash]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.Document(ctx, id)
}

func (s *MemStore) ListDocuments(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.docs))
	for id, d := range s.docs {
		out = append(out, Summary{
			ID:          id,
			Title:       d.doc.Title,
			Filename:    d.doc.Filename,
			ContentHash: d.doc.ContentHash,
			ChunkCount:  len(s.chunks[id]),
			CreatedAt:   d.createdAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) Chunks(_ context.Context, docID string) ([]document.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.docs[docID]; !ok {
		return nil, ErrNotFound
	}
	return append([]document.Chunk{}, s.chunks[docID]...), nil
}

func (s *MemStore) DeleteDocument(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return 0, ErrNotFound
	}
	n := len(s.chunks[id])
	delete(s.docs, id)
	delete(s.chunks, id)
	delete(s.byHash, d.doc.ContentHash)
	return n, nil
}

func (s *MemStore) Close() error { return nil }
