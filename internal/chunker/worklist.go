package chunker

// piece is a pending chunk on the split work-list.
type piece struct {
	text string
	// lead is prefixed to text, or to the first paragraph piece of text.
	lead string
	// marker is the continuation line prefixed to every paragraph piece after
	// the first when text has to be split further. Empty for flat content.
	marker string
	// final pieces are emitted as-is, even when oversized.
	final bool
}

func (p piece) full() string {
	return joinNonEmpty(p.lead, p.text)
}

// boundPieces consumes pieces in order until every emitted chunk is within
// maxSize, re-splitting oversized ones by paragraph in place. Paragraph
// output is final: a single paragraph over maxSize is the one permitted
// oversized chunk.
func boundPieces(pieces []piece, maxSize int) []string {
	out := make([]string, 0, len(pieces))

	stack := make([]piece, 0, len(pieces))
	for i := len(pieces) - 1; i >= 0; i-- {
		stack = append(stack, pieces[i])
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		text := p.full()
		if text == "" {
			continue
		}
		if p.final || charLen(text) <= maxSize {
			out = append(out, text)
			continue
		}

		parts := paragraphPieces(p, maxSize)
		for i := len(parts) - 1; i >= 0; i-- {
			stack = append(stack, parts[i])
		}
	}

	return out
}

// paragraphPieces splits p by paragraphs. The budget leaves room for the
// lead and marker lines so prefixed pieces still fit maxSize.
func paragraphPieces(p piece, maxSize int) []piece {
	reserve := 0
	for _, prefix := range []string{p.lead, p.marker} {
		if n := charLen(prefix); n > 0 && n+len(paragraphSep) > reserve {
			reserve = n + len(paragraphSep)
		}
	}
	budget := maxSize - reserve
	if budget < 1 {
		budget = 1
	}

	parts := SplitParagraphs(p.text, budget)
	out := make([]piece, 0, len(parts))
	for i, part := range parts {
		prefix := p.marker
		if i == 0 {
			prefix = p.lead
		}
		out = append(out, piece{text: joinNonEmpty(prefix, part), final: true})
	}
	return out
}

// joinNonEmpty joins a and b with a paragraph separator, skipping empties.
func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + paragraphSep + b
}
