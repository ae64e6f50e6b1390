package chunker

import (
	"regexp"
	"strings"
)

// paragraphSep joins paragraphs and merged chunks.
const paragraphSep = "\n\n"

var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// SplitParagraphs greedily packs blank-line separated paragraphs into chunks
// of at most maxSize characters. A paragraph that alone exceeds maxSize is
// emitted whole rather than broken mid-paragraph.
func SplitParagraphs(text string, maxSize int) []string {
	var result []string
	var current strings.Builder
	currentLen := 0

	for _, para := range splitByParagraphs(text) {
		paraLen := charLen(para)

		if currentLen > 0 && currentLen+paraLen+len(paragraphSep) > maxSize {
			result = append(result, current.String())
			current.Reset()
			currentLen = 0
		}

		if currentLen > 0 {
			current.WriteString(paragraphSep)
			currentLen += len(paragraphSep)
		}
		current.WriteString(para)
		currentLen += paraLen
	}

	if currentLen > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitByParagraphs splits on blank lines and drops empty paragraphs.
func splitByParagraphs(text string) []string {
	parts := blankLine.Split(text, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
