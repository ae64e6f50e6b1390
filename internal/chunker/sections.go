package chunker

import "strings"

var sectionTiers = []boundaryMatcher{sectionTier}

// SplitSections chunks text that has no ORDER/Rule hierarchy by its flat
// numbered Section headings. Text before the first heading is kept only when
// longer than noiseFloor. Without headings the text is split by paragraphs.
func SplitSections(text string, maxSize, noiseFloor int) []string {
	sections := cascade(sectionTiers, text)
	if len(sections) == 0 {
		return SplitParagraphs(text, maxSize)
	}

	pieces := make([]piece, 0, len(sections))
	for _, s := range sections {
		pieces = append(pieces, piece{text: strings.TrimSpace(text[s.Start:s.End])})
	}
	chunks := boundPieces(pieces, maxSize)

	intro := strings.TrimSpace(text[:sections[0].Start])
	if charLen(intro) > noiseFloor {
		chunks = append(SplitParagraphs(intro, maxSize), chunks...)
	}

	return chunks
}
