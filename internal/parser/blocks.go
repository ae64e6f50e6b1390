package parser

import "strings"

// textBuilder accumulates normalised blocks in document order.
type textBuilder struct {
	blocks []string
}

// heading adds a markdown heading line. Levels outside 1..6 are clamped.
func (b *textBuilder) heading(level int, text string) {
	text = collapseSpaces(text)
	if text == "" {
		return
	}
	level = min(max(level, 1), 6)
	b.blocks = append(b.blocks, strings.Repeat("#", level)+" "+text)
}

// para adds a block of body text. Interior line breaks are kept, so
// markers at the start of a line stay detectable.
func (b *textBuilder) para(text string) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimRight(l, " \t\r"); strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return
	}
	b.blocks = append(b.blocks, strings.Join(kept, "\n"))
}

func (b *textBuilder) String() string {
	return strings.Join(b.blocks, "\n\n")
}

// collapseSpaces folds all whitespace runs, including newlines, to one space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
