package chunker

import "strings"

// MergeSmall enforces the minimum chunk size. Consecutive chunks under
// minSize accumulate into a pending buffer; when a full-size chunk arrives the
// buffer is emitted on its own if it reached minSize, otherwise glued onto
// the previous chunk. A buffer with no previous chunk glues onto the next
// one instead, so only a single-chunk result can be under minSize; it does
// not stand alone as the first chunk.
// Whitespace-only chunks are dropped.
func MergeSmall(chunks []string, minSize int) []string {
	validated := make([]string, 0, len(chunks))
	pending := ""

	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		if charLen(chunk) < minSize {
			pending = joinNonEmpty(pending, chunk)
			continue
		}

		if pending != "" {
			switch {
			case charLen(pending) >= minSize:
				validated = append(validated, pending)
			case len(validated) > 0:
				last := len(validated) - 1
				validated[last] = joinNonEmpty(validated[last], pending)
			default:
				chunk = joinNonEmpty(pending, chunk)
			}
			pending = ""
		}

		validated = append(validated, chunk)
	}

	if pending != "" {
		if len(validated) > 0 && charLen(pending) < minSize {
			last := len(validated) - 1
			validated[last] = joinNonEmpty(validated[last], pending)
		} else {
			validated = append(validated, pending)
		}
	}

	return validated
}
