package chunker

import "strings"

// ContinuationMarker is the context line carried by every chunk of a
// subdivided ORDER after the first.
func ContinuationMarker(id string) string {
	return "ORDER " + id + " (continued)"
}

// SplitRules subdivides the text of one oversized ORDER into its Rules.
// The ORDER header travels with the first Rule and every later chunk is
// prefixed with the continuation marker. Without recognisable Rules the
// whole unit is split by paragraphs. No chunk is left above maxSize unless
// it is a single paragraph.
func SplitRules(unitText, id string, maxSize int) []string {
	marker := ContinuationMarker(id)

	rules := cascade(ruleTiers, unitText)
	if len(rules) == 0 {
		return boundPieces([]piece{{text: unitText, marker: marker}}, maxSize)
	}

	header := strings.TrimSpace(unitText[:rules[0].Start])
	pieces := make([]piece, 0, len(rules))
	for i, r := range rules {
		rule := strings.TrimSpace(unitText[r.Start:r.End])
		if i == 0 {
			pieces = append(pieces, piece{text: joinNonEmpty(header, rule), marker: marker})
			continue
		}
		pieces = append(pieces, piece{text: rule, lead: marker, marker: marker})
	}

	return boundPieces(pieces, maxSize)
}
