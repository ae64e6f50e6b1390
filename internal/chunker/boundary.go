package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Boundary delimits one structural unit of a document. Offsets are absolute
// byte offsets into the text the boundary was detected in.
type Boundary struct {
	ID      string // Unit identifier, e.g. "VII" or "3A".
	Title   string // Possibly empty.
	Start   int
	End     int
	Heading string // Heading text as matched.
}

// boundaryMatcher is one tier of a detection cascade. It returns boundaries
// with Start set, in document order, or nothing.
type boundaryMatcher interface {
	match(text string) []Boundary
}

// headingTier matches one heading shape. The pattern must define a "heading"
// group (where the unit starts) and an "id" group; a "title" group is optional.
type headingTier struct {
	re *regexp.Regexp
	// nextLineTitle takes the title from the following line when the pattern
	// captured none.
	nextLineTitle bool
}

func (t headingTier) match(text string) []Boundary {
	locs := t.re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	heading := t.re.SubexpIndex("heading")
	id := t.re.SubexpIndex("id")
	title := t.re.SubexpIndex("title")

	out := make([]Boundary, 0, len(locs))
	for _, loc := range locs {
		b := Boundary{
			ID:      strings.ToUpper(text[loc[2*id]:loc[2*id+1]]),
			Start:   loc[2*heading],
			Heading: strings.TrimSpace(text[loc[2*heading]:loc[2*heading+1]]),
		}
		if title >= 0 && loc[2*title] >= 0 {
			b.Title = strings.TrimSpace(text[loc[2*title]:loc[2*title+1]])
		}
		if b.Title == "" && t.nextLineTitle {
			b.Title = titleFromNextLine(text, loc[1])
		}
		out = append(out, b)
	}
	return out
}

// titleFromNextLine inspects the line after the heading line ending at
// lineEnd. A markdown sub-heading or a line starting with an upper-case
// letter is accepted as the title.
func titleFromNextLine(text string, lineEnd int) string {
	nl := strings.IndexByte(text[lineEnd:], '\n')
	if nl < 0 {
		return ""
	}
	rest := text[lineEnd+nl+1:]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	line := strings.TrimSpace(rest)
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimLeft(line, "#"))
	}
	if r, _ := utf8.DecodeRuneInString(line); r != utf8.RuneError && unicode.IsUpper(r) {
		return line
	}
	return ""
}

// rulesListTier finds a RULES sub-heading and treats the decimal-numbered
// items beneath it as sub-units. Item offsets are found relative to the end
// of the sub-heading and returned absolute.
type rulesListTier struct {
	header *regexp.Regexp
	item   *regexp.Regexp
}

func (t rulesListTier) match(text string) []Boundary {
	hdr := t.header.FindStringIndex(text)
	if hdr == nil {
		return nil
	}
	offset := hdr[1]
	locs := t.item.FindAllStringSubmatchIndex(text[offset:], -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Boundary, 0, len(locs))
	for _, loc := range locs {
		start := offset + loc[2]
		out = append(out, Boundary{
			ID:      text[offset+loc[4] : offset+loc[5]],
			Start:   start,
			Heading: strings.TrimSpace(text[start : offset+loc[3]]),
		})
	}
	return out
}

var (
	// "## ORDER VII" alone on its line. Extraction sometimes glues the
	// heading to the end of the previous sentence, so sentence punctuation
	// is accepted in place of a line start.
	markdownOrderTier = headingTier{
		re:            regexp.MustCompile(`(?im)(?:^|[.;:!?])[ \t]*(?P<heading>#+[ \t]*ORDER[ \t]+(?P<id>[IVXLCDM]+))[ \t]*\r?$`),
		nextLineTitle: true,
	}

	// "ORDER VII" or "ORDER VII -" on a plain line.
	plainOrderTier = headingTier{
		re:            regexp.MustCompile(`(?im)^[ \t]*(?P<heading>#*[ \t]*ORDER[ \t]+(?P<id>[IVXLCDM]+))[ \t]*[-–—]?[ \t]*\r?$`),
		nextLineTitle: true,
	}

	// "ORDER VII - PAUPER SUITS" with the title on the same line.
	titledOrderTier = headingTier{
		re: regexp.MustCompile(`(?im)^[ \t]*(?P<heading>#*[ \t]*ORDER[ \t]+(?P<id>[IVXLCDM]+)(?:[ \t]*[-–—.:][ \t]*|[ \t]+)(?P<title>[A-Z][A-Z ,\-()]*[A-Z)]))[ \t]*\r?$`),
		nextLineTitle: true,
	}

	orderTiers = []boundaryMatcher{markdownOrderTier, plainOrderTier, titledOrderTier}

	// "Rule 3", "2. Rule 3A:", "rule 12 -".
	ruleMarkerTier = headingTier{
		re: regexp.MustCompile(`(?im)^[ \t]*(?P<heading>(?:\d+\.?[ \t]+)?Rule[ \t]+(?P<id>\d+[A-Z]?))`),
	}

	// "RULES" sub-heading followed by "1. ...", "2. ..." items.
	rulesListMatcher = rulesListTier{
		header: regexp.MustCompile(`(?im)^[ \t]*#*[ \t]*RULES[ \t]*\r?$`),
		item:   regexp.MustCompile(`(?m)^[ \t]*((\d+)\.)[ \t]+`),
	}

	ruleTiers = []boundaryMatcher{ruleMarkerTier, rulesListMatcher}

	// "THE FIRST SCHEDULE", "APPENDIX B", "SCHEDULE II -" in capitals on
	// their own line.
	appendixHeading = regexp.MustCompile(`(?m)^[ \t]*#*[ \t]*(?:THE[ \t]+(?:[A-Z]+[ \t]+)?)?(?:SCHEDULE|APPENDIX)(?:[ \t]+[A-Z0-9]+)?[ \t]*[.:\-–—]?[ \t]*\r?$`)

	// "12. Power to make rules" or "Section 4A - Definitions".
	sectionTier = headingTier{
		re: regexp.MustCompile(`(?m)^[ \t]*(?P<heading>(?:Section[ \t]+)?(?P<id>\d+[A-Z]?)[ \t]*[.:\-–—][ \t]*(?P<title>[A-Z][A-Za-z ,\-()]*[A-Za-z)]))[ \t]*\r?$`),
	}
)

// DetectBoundaries finds the top-level ORDER units of a document. The first
// tier of the cascade that matches anything wins; an empty result means the
// document has no recognisable hierarchy. The last unit ends at the end of
// text.
func DetectBoundaries(text string) []Boundary {
	return cascade(orderTiers, text)
}

// appendixStart returns the absolute offset of the first SCHEDULE or APPENDIX
// heading inside b after its own heading, or b.End if there is none.
func appendixStart(text string, b Boundary) int {
	loc := appendixHeading.FindStringIndex(text[b.Start:b.End])
	if loc == nil || loc[0] == 0 {
		return b.End
	}
	return b.Start + loc[0]
}

// cascade runs matchers in priority order and closes the first non-empty
// result so that consecutive boundaries partition text.
func cascade(tiers []boundaryMatcher, text string) []Boundary {
	for _, tier := range tiers {
		if bs := tier.match(text); len(bs) > 0 {
			closeBoundaries(bs, len(text))
			return bs
		}
	}
	return nil
}

// closeBoundaries sets each End to the next Start, and the last to textLen.
func closeBoundaries(bs []Boundary, textLen int) {
	for i := range bs {
		if i+1 < len(bs) {
			bs[i].End = bs[i+1].Start
		} else {
			bs[i].End = textLen
		}
	}
}
