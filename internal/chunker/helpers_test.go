package chunker

import (
	"strings"
)

// filler returns roughly size characters of sentence-like text ending in a period.
func filler(size int) string {
	const words = "lorem ipsum dolor sit amet consectetur adipiscing elit "
	s := strings.Repeat(words, size/len(words)+1)[:size-1]
	return strings.TrimSpace(s) + "."
}

// paragraphs returns n filler paragraphs of roughly size characters each.
func paragraphs(n, size int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = filler(size)
	}
	return strings.Join(parts, "\n\n")
}

// squash removes all whitespace so texts can be compared modulo
// whitespace normalisation.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func smallThresholds() Thresholds {
	return Thresholds{
		MinChunkSize:       5,
		MaxChunkSize:       1000,
		RuleSplitThreshold: 500,
		FallbackChunkSize:  100,
		NoiseFloor:         100,
	}
}
