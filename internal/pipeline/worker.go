package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/lexchunk/internal/chunker"
	"github.com/dgallion1/lexchunk/internal/document"
	"github.com/dgallion1/lexchunk/internal/parser"
	"github.com/dgallion1/lexchunk/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	store      store.ChunkStore
	chunker    *chunker.Chunker
	stats      *SegmentStats
	log        *slog.Logger
	parserOpts parser.Options

	backoff func(attempt int) time.Duration
}

func NewWorker(st store.ChunkStore, ch *chunker.Chunker, stats *SegmentStats, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		store:      st,
		chunker:    ch,
		stats:      stats,
		log:        log,
		parserOpts: opts,
		backoff:    Backoff,
	}
}

// Process runs parse, dedup, segment and store for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.SetFileData(nil)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if title := job.Snapshot().Title; title != "" {
		doc.Title = title
	}
	job.SetDocument(doc.ID, doc.ContentHash, doc.Title)
	log = log.With("doc_id", doc.ID)

	// Phase 1.5: Dedup check
	existing, err := w.store.FindByHash(ctx, doc.ContentHash)
	switch {
	case err == nil:
		log.Info("duplicate document, skipping", "existing_doc_id", existing.ID)
		job.SetDocument(existing.ID, doc.ContentHash, existing.Title)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	case !errors.Is(err, store.ErrNotFound):
		log.Warn("dedup check failed, proceeding", "error", err)
	}

	// Phase 2: Segment
	job.SetStatus(StatusChunking, "chunking")
	start := time.Now()
	texts := w.chunker.Segment(doc.Text)
	w.stats.Record(time.Since(start).Milliseconds(), len(texts))
	job.SetTotalChunks(len(texts))

	if len(texts) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	chunks := document.NewChunks(doc.ID, texts)
	if err := w.save(ctx, log, doc, chunks); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetChunksStored(len(chunks))
	job.SetStatus(StatusCompleted, "done")
	log.Info("document stored", "chunks", len(chunks))
}

// save writes the document, retrying transient store failures with backoff.
func (w *Worker) save(ctx context.Context, log *slog.Logger, doc *document.Document, chunks []document.Chunk) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = w.store.SaveDocument(ctx, doc, chunks)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", MaxRetries, lastErr)
}
