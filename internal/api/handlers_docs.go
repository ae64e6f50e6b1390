package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/lexchunk/internal/store"
)

// handleListDocuments lists stored documents without their text.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orchestrator.Store().ListDocuments(r.Context())
	if err != nil {
		s.storeError(w, "failed to list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleDocumentChunks returns a document's chunks in order.
func (s *Server) handleDocumentChunks(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	ctx := r.Context()

	doc, err := s.orchestrator.Store().Document(ctx, docID)
	if err != nil {
		s.storeError(w, "failed to load document", err)
		return
	}
	chunks, err := s.orchestrator.Store().Chunks(ctx, docID)
	if err != nil {
		s.storeError(w, "failed to load chunks", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":       doc.ID,
		"title":        doc.Title,
		"filename":     doc.Filename,
		"content_hash": doc.ContentHash,
		"chunks":       chunks,
	})
}

// handleDeleteDocument deletes a document and all its chunks.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	n, err := s.orchestrator.Store().DeleteDocument(r.Context(), docID)
	if err != nil {
		s.storeError(w, "failed to delete document", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":         docID,
		"chunks_deleted": n,
	})
}

func (s *Server) storeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "document not found", http.StatusNotFound)
	case errors.Is(err, store.ErrUnavailable):
		s.log.Warn(msg, "error", err)
		jsonError(w, msg+": store unavailable", http.StatusServiceUnavailable)
	default:
		s.log.Error(msg, "error", err)
		jsonError(w, msg, http.StatusInternalServerError)
	}
}
