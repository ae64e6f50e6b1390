// Package chunker splits legal instruments into bounded-size chunks along
// their ORDER, Rule and Section structure, falling back to paragraph packing
// when no structure is recognised.
package chunker

import (
	"log/slog"
	"strings"
)

// Chunker segments documents with a fixed set of thresholds. It holds no
// per-document state and is safe for concurrent use.
type Chunker struct {
	th  Thresholds
	log *slog.Logger
}

// New validates th and returns a Chunker. A nil logger discards diagnostics.
func New(th Thresholds, log *slog.Logger) (*Chunker, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Chunker{th: th, log: log}, nil
}

// Thresholds returns the sizes this Chunker was built with.
func (c *Chunker) Thresholds() Thresholds {
	return c.th
}

// Segment is a convenience for one-off segmentation without diagnostics.
func Segment(text string, th Thresholds) ([]string, error) {
	c, err := New(th, nil)
	if err != nil {
		return nil, err
	}
	return c.Segment(text), nil
}

// Segment splits a full document into an ordered sequence of chunks. It never
// fails: text without recognisable structure is split by paragraphs, and
// empty input yields an empty slice.
func (c *Chunker) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	bounds := DetectBoundaries(text)
	if len(bounds) == 0 {
		c.log.Warn("no ORDERs detected, falling back to paragraph chunking",
			"bound", c.th.FallbackChunkSize)
		chunks := SplitParagraphs(text, c.th.FallbackChunkSize)
		c.log.Info("chunked document", "stats", ComputeStats(chunks))
		return chunks
	}
	c.log.Info("detected ORDERs", "count", len(bounds), "thresholds", c.th.String())

	last := len(bounds) - 1
	tail := unitEnd(text, bounds[last], c.th.NoiseFloor)

	var units []string
	for i, b := range bounds {
		end := b.End
		if i == last {
			end = tail
		}
		unit := strings.TrimSpace(text[b.Start:end])
		size := charLen(unit)
		if size > c.th.RuleSplitThreshold {
			parts := SplitRules(unit, b.ID, c.th.MaxChunkSize)
			c.log.Info("split ORDER by rules", "order", b.ID, "chars", size, "chunks", len(parts))
			units = append(units, parts...)
			continue
		}
		c.log.Debug("extracted ORDER", "order", b.ID, "title", b.Title, "chars", size)
		units = append(units, unit)
	}

	preamble, appendix := splitSurrounding(text, bounds, tail, c.th)
	if len(preamble) > 0 {
		c.log.Info("added preamble chunks", "count", len(preamble))
	}
	if len(appendix) > 0 {
		c.log.Info("added appendix chunks", "count", len(appendix))
	}

	chunks := make([]string, 0, len(preamble)+len(units)+len(appendix))
	chunks = append(chunks, preamble...)
	chunks = append(chunks, units...)
	chunks = append(chunks, appendix...)

	chunks = MergeSmall(chunks, c.th.MinChunkSize)
	c.log.Info("chunked document", "stats", ComputeStats(chunks))
	return chunks
}
