package pathstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/lexchunk/internal/document"
	"github.com/dgallion1/lexchunk/internal/store"
)

// fakeKV is an in-memory stand-in for the pathstore HTTP API.
type fakeKV struct {
	mu         sync.Mutex
	nodes      map[string]json.RawMessage
	links      []LinkRequest
	failStatus int
	authHeader string
}

func newFakeKV() *fakeKV {
	return &fakeKV{nodes: map[string]json.RawMessage{}}
}

func (f *fakeKV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authHeader = r.Header.Get("Authorization")

	if f.failStatus != 0 {
		http.Error(w, "unavailable", f.failStatus)
		return
	}

	if r.URL.Path == "/links" {
		var link LinkRequest
		if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.links = append(f.links, link)
		w.WriteHeader(http.StatusCreated)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		var body struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.nodes[key] = body.Value
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			var out []ListChildrenResponse
			for _, k := range f.sortedKeys() {
				if strings.HasPrefix(k, prefix+"/") {
					out = append(out, ListChildrenResponse{Key: k, Value: f.nodes[k]})
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"nodes": out})
			return
		}
		v, ok := f.nodes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(NodeResponse{Key: key, Value: v})
	case http.MethodDelete:
		delete(f.nodes, key)
		if r.URL.Query().Get("children") == "true" {
			for k := range f.nodes {
				if strings.HasPrefix(k, key+"/") {
					delete(f.nodes, k)
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeKV) setFailStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = code
}

func (f *fakeKV) snapshot() (nodes int, links []LinkRequest, auth string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nodes), append([]LinkRequest(nil), f.links...), f.authHeader
}

func (f *fakeKV) sortedKeys() []string {
	keys := make([]string, 0, len(f.nodes))
	for k := range f.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setupStore(t *testing.T) (*Store, *fakeKV) {
	t.Helper()
	kv := newFakeKV()
	srv := httptest.NewServer(kv)
	t.Cleanup(srv.Close)
	s := NewStore(NewClient(srv.URL, "test-key"))
	t.Cleanup(func() { s.Close() })
	return s, kv
}

func sampleDoc() (*document.Document, []document.Chunk) {
	doc := document.New("cpc.md", "Civil Procedure", "## ORDER I\nParties\n\n## ORDER II\nFrame")
	return doc, document.NewChunks(doc.ID, []string{"## ORDER I\nParties", "## ORDER II\nFrame", "tail"})
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s, kv := setupStore(t)
	doc, chunks := sampleDoc()

	require.NoError(t, s.SaveDocument(ctx, doc, chunks))
	_, links, auth := kv.snapshot()
	assert.Equal(t, "Bearer test-key", auth)

	got, err := s.Document(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	byHash, err := s.FindByHash(ctx, doc.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, byHash.ID)

	gotChunks, err := s.Chunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, chunks, gotChunks)

	require.Len(t, links, 2)
	assert.Equal(t, chunkKey(doc.ID, 0), links[0].From)
	assert.Equal(t, chunkKey(doc.ID, 1), links[0].To)
}

func TestStore_SaveReplacesChunksKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)
	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return first }
	doc, chunks := sampleDoc()
	require.NoError(t, s.SaveDocument(ctx, doc, chunks))

	s.now = func() time.Time { return first.Add(time.Hour) }
	replacement := document.NewChunks(doc.ID, []string{"single"})
	require.NoError(t, s.SaveDocument(ctx, doc, replacement))

	got, err := s.Chunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement, got)

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].ChunkCount)
	assert.True(t, first.Equal(docs[0].CreatedAt))
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	_, err := s.Document(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindByHash(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Chunks(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.DeleteDocument(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	s, kv := setupStore(t)
	doc, chunks := sampleDoc()
	require.NoError(t, s.SaveDocument(ctx, doc, chunks))

	n, err := s.DeleteDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	nodes, _, _ := kv.snapshot()
	assert.Zero(t, nodes)
}

func TestStore_ServerErrorIsUnavailable(t *testing.T) {
	ctx := context.Background()
	s, kv := setupStore(t)
	kv.setFailStatus(http.StatusServiceUnavailable)
	doc, chunks := sampleDoc()

	err := s.SaveDocument(ctx, doc, chunks)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestStore_ClientErrorIsNotRetryable(t *testing.T) {
	ctx := context.Background()
	s, kv := setupStore(t)
	kv.setFailStatus(http.StatusForbidden)

	_, err := s.Document(ctx, "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "status 403")
}

func TestClient_TransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "k")
	err := c.PutNode(context.Background(), "a", NodeRequest{Value: 1})
	assert.ErrorIs(t, err, ErrUnavailable)
}
