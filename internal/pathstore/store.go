package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/lexchunk/internal/document"
	"github.com/dgallion1/lexchunk/internal/store"
)

const (
	rootKey     = "lexchunk"
	documentsNS = rootKey + "/documents"
	hashNS      = rootKey + "/by_hash"
	source      = "lexchunk"
)

func docKey(id string) string { return documentsNS + "/" + id }
func metaKey(id string) string { return docKey(id) + "/meta" }
func chunksKey(id string) string { return docKey(id) + "/chunks" }
func chunkKey(id string, i int) string { return fmt.Sprintf("%s/%06d", chunksKey(id), i) }
func hashKey(hash string) string { return hashNS + "/" + hash }

// docMeta is the value stored at a document's meta key.
type docMeta struct {
	ID          string    `json:"doc_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Text        string    `json:"text"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type hashEntry struct {
	DocID string `json:"doc_id"`
}

// Store keeps documents and chunks under the lexchunk/ namespace of a
// pathstore instance. Consecutive chunks are linked so a reader can walk a
// document in order.
type Store struct {
	client *Client
	now    func() time.Time
}

var _ store.ChunkStore = (*Store)(nil)

func NewStore(client *Client) *Store {
	return &Store{client: client, now: time.Now}
}

// SaveDocument writes chunks before the meta node, so a document whose meta
// exists is complete.
func (s *Store) SaveDocument(ctx context.Context, doc *document.Document, chunks []document.Chunk) error {
	createdAt := s.now().UTC()
	if old, err := s.meta(ctx, doc.ID); err == nil {
		createdAt = old.CreatedAt
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}

	if err := s.client.DeleteNode(ctx, chunksKey(doc.ID), true); err != nil {
		return fmt.Errorf("save document %s: clear chunks: %w", doc.ID, err)
	}
	for i, c := range chunks {
		key := chunkKey(doc.ID, c.Index)
		if err := s.client.PutNode(ctx, key, NodeRequest{Value: c, Source: source}); err != nil {
			return fmt.Errorf("save document %s: chunk %d: %w", doc.ID, c.Index, err)
		}
		if i > 0 {
			link := LinkRequest{From: chunkKey(doc.ID, chunks[i-1].Index), To: key, Weight: 1, Summary: "next"}
			if err := s.client.PutLink(ctx, link); err != nil {
				return fmt.Errorf("save document %s: link chunk %d: %w", doc.ID, c.Index, err)
			}
		}
	}

	meta := docMeta{
		ID:          doc.ID,
		Title:       doc.Title,
		Filename:    doc.Filename,
		ContentHash: doc.ContentHash,
		Text:        doc.Text,
		ChunkCount:  len(chunks),
		CreatedAt:   createdAt,
	}
	if err := s.client.PutNode(ctx, metaKey(doc.ID), NodeRequest{Value: meta, MergeMode: "replace", Source: source}); err != nil {
		return fmt.Errorf("save document %s: meta: %w", doc.ID, err)
	}
	if err := s.client.PutNode(ctx, hashKey(doc.ContentHash), NodeRequest{Value: hashEntry{DocID: doc.ID}, Source: source}); err != nil {
		return fmt.Errorf("save document %s: hash index: %w", doc.ID, err)
	}
	return nil
}

func (s *Store) meta(ctx context.Context, id string) (*docMeta, error) {
	node, err := s.client.GetNode(ctx, metaKey(id))
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, store.ErrNotFound
	}
	var m docMeta
	if err := json.Unmarshal(node.Value, &m); err != nil {
		return nil, fmt.Errorf("decode meta %s: %w", id, err)
	}
	return &m, nil
}

func (s *Store) Document(ctx context.Context, id string) (*document.Document, error) {
	m, err := s.meta(ctx, id)
	if err != nil {
		return nil, err
	}
	return &document.Document{
		ID:          m.ID,
		Title:       m.Title,
		Filename:    m.Filename,
		Text:        m.Text,
		ContentHash: m.ContentHash,
	}, nil
}

func (s *Store) FindByHash(ctx context.Context, hash string) (*document.Document, error) {
	node, err := s.client.GetNode(ctx, hashKey(hash))
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, store.ErrNotFound
	}
	var e hashEntry
	if err := json.Unmarshal(node.Value, &e); err != nil {
		return nil, fmt.Errorf("decode hash entry: %w", err)
	}
	return s.Document(ctx, e.DocID)
}

func (s *Store) ListDocuments(ctx context.Context) ([]store.Summary, error) {
	nodes, err := s.client.ListChildren(ctx, documentsNS, 0)
	if err != nil {
		return nil, err
	}
	out := []store.Summary{}
	for _, n := range nodes {
		if !strings.HasSuffix(n.Key, "/meta") {
			continue
		}
		var m docMeta
		if err := json.Unmarshal(n.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", n.Key, err)
		}
		out = append(out, store.Summary{
			ID:          m.ID,
			Title:       m.Title,
			Filename:    m.Filename,
			ContentHash: m.ContentHash,
			ChunkCount:  m.ChunkCount,
			CreatedAt:   m.CreatedAt,
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

func (s *Store) Chunks(ctx context.Context, docID string) ([]document.Chunk, error) {
	if _, err := s.meta(ctx, docID); err != nil {
		return nil, err
	}
	nodes, err := s.client.ListChildren(ctx, chunksKey(docID), 0)
	if err != nil {
		return nil, err
	}
	out := make([]document.Chunk, 0, len(nodes))
	for _, n := range nodes {
		var c document.Chunk
		if err := json.Unmarshal(n.Value, &c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", n.Key, err)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) (int, error) {
	m, err := s.meta(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.client.DeleteNode(ctx, docKey(id), true); err != nil {
		return 0, fmt.Errorf("delete document %s: %w", id, err)
	}
	if err := s.client.DeleteNode(ctx, hashKey(m.ContentHash), false); err != nil {
		return 0, fmt.Errorf("delete hash index %s: %w", id, err)
	}
	return m.ChunkCount, nil
}

func (s *Store) Close() error {
	s.client.Close()
	return nil
}
