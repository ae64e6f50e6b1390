package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitParagraphs_GreedyPacking(t *testing.T) {
	chunks := SplitParagraphs("aaaa\n\nbbbb\n\ncccc", 10)
	assert.Equal(t, []string{"aaaa\n\nbbbb", "cccc"}, chunks)
}

func TestSplitParagraphs_OversizedParagraphKeptWhole(t *testing.T) {
	long := strings.Repeat("y", 50)
	chunks := SplitParagraphs("short\n\n"+long+"\n\ntail", 20)
	assert.Equal(t, []string{"short", long, "tail"}, chunks)
}

func TestSplitParagraphs_BlankLinesWithWhitespace(t *testing.T) {
	chunks := SplitParagraphs("one\n  \t\ntwo\n\n\n\nthree", 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "one\n\ntwo\n\nthree", chunks[0])
}

func TestSplitParagraphs_Empty(t *testing.T) {
	assert.Empty(t, SplitParagraphs("", 100))
	assert.Empty(t, SplitParagraphs("\n\n   \n\n", 100))
}

func TestSplitParagraphs_UnstructuredProse(t *testing.T) {
	// 60 paragraphs of 198 characters: five fit in 1000 with separators.
	para := strings.Repeat("x", 197) + "."
	parts := make([]string, 60)
	for i := range parts {
		parts[i] = para
	}
	text := strings.Join(parts, "\n\n")

	chunks := SplitParagraphs(text, 1000)
	require.Len(t, chunks, 12)
	for i, c := range chunks {
		assert.LessOrEqual(t, charLen(c), 1000, "chunk %d", i)
	}
	assert.Equal(t, squash(text), squash(strings.Join(chunks, "")))
}

func TestSplitParagraphs_CountsCharactersNotBytes(t *testing.T) {
	// Each paragraph is 4 characters but 8 bytes.
	chunks := SplitParagraphs("ßßßß\n\nßßßß", 10)
	require.Len(t, chunks, 1)
}
