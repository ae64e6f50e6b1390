package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/lexchunk/internal/chunker"
	"github.com/dgallion1/lexchunk/internal/document"
	"github.com/dgallion1/lexchunk/internal/parser"
)

// handleSegment chunks a single document synchronously without storing it.
// The body is either a multipart form with a "file" field or raw text.
// Threshold overrides come from query parameters or form fields.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	var (
		filename = "request.txt"
		data     []byte
		err      error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			formError(w, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, ferr := r.FormFile("file")
		if ferr != nil {
			jsonError(w, "file is required: "+ferr.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		filename = sanitizeFilename(header.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}
		data, err = s.readUpload(file)
	} else {
		data, err = s.readUpload(r.Body)
	}
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errTooLarge), errors.As(err, &maxErr):
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	ch, err := s.segmenter(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := parser.ForFile(filename, parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if title := r.FormValue("title"); title != "" {
		doc.Title = title
	}

	start := time.Now()
	texts := ch.Segment(doc.Text)
	s.orchestrator.SegmentStats().Record(time.Since(start).Milliseconds(), len(texts))

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":     doc.ID,
		"title":      doc.Title,
		"filename":   doc.Filename,
		"thresholds": ch.Thresholds(),
		"stats":      chunker.ComputeStats(texts),
		"chunks":     document.NewChunks(doc.ID, texts),
	})
}

// segmenter returns the shared chunker, or a new one when the request
// overrides any threshold.
func (s *Server) segmenter(r *http.Request) (*chunker.Chunker, error) {
	base := s.orchestrator.Chunker()
	th := base.Thresholds()
	overrides := []struct {
		name string
		dst  *int
	}{
		{"min_chunk_size", &th.MinChunkSize},
		{"max_chunk_size", &th.MaxChunkSize},
		{"rule_split_threshold", &th.RuleSplitThreshold},
		{"fallback_chunk_size", &th.FallbackChunkSize},
		{"noise_floor", &th.NoiseFloor},
	}

	changed := false
	for _, o := range overrides {
		v := r.FormValue(o.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: not an integer: %q", o.name, v)
		}
		*o.dst = n
		changed = true
	}
	if !changed {
		return base, nil
	}
	return chunker.New(th, s.log)
}
