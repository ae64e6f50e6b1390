package parser

import (
	"fmt"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.txt", "*parser.TextParser"},
		{"a.MD", "*parser.MarkdownParser"},
		{"a.markdown", "*parser.MarkdownParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if err != nil {
			t.Fatalf("ForFile(%q): %v", tt.filename, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("data.csv", Options{}); err == nil {
		t.Fatal("expected error for .csv")
	}
	if IsSupportedExtension("data.csv") {
		t.Error("csv should not be supported")
	}
	if !IsSupportedExtension("CPC.PDF") {
		t.Error("extension check should ignore case")
	}
}

func TestForFile_PDFOptions(t *testing.T) {
	p, err := ForFile("a.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatal(err)
	}
	if !p.(*PDFParser).FallbackPdftotext {
		t.Error("expected pdftotext fallback to be enabled")
	}
}

func TestJoinPages(t *testing.T) {
	got := joinPages([]string{"ORDER I\r\nParties\n\n", "  \n", "continued text"})
	want := "ORDER I\nParties\n\ncontinued text"
	if got != want {
		t.Errorf("joinPages = %q, want %q", got, want)
	}
}

func TestStyleHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"Heading1":  1,
		"heading 3": 3,
		"Heading6":  6,
		"Heading7":  0,
		"Title":     -1,
		"Normal":    0,
		"":          0,
	}
	for style, want := range tests {
		if got := styleHeadingLevel(style); got != want {
			t.Errorf("styleHeadingLevel(%q) = %d, want %d", style, got, want)
		}
	}
}

func TestTextBuilder(t *testing.T) {
	var b textBuilder
	b.heading(0, "  ORDER\n I ")
	b.para("  \n")
	b.para("line one  \n\n  line two")
	b.heading(9, "deep")

	want := "# ORDER I\n\nline one\n  line two\n\n###### deep"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func typeName(p Parser) string {
	return fmt.Sprintf("%T", p)
}
