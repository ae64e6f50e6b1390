package chunker

import (
	"strings"
	"unicode/utf8"
)

// EstimateTokens gives a rough token count using a words-to-tokens ratio.
// Exact tokenization is not required for reporting.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 0.75 words per token for English text.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 && len(text) > 0 {
		tokens = 1
	}
	return tokens
}

// charLen is the size measure used for every threshold: characters, not bytes.
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}
