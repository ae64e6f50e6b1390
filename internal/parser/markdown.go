package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/lexchunk/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. The AST is written
// back out as plain markdown: setext headings become ATX headings and list
// items keep their markers, each as its own block.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var b textBuilder
	var title string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && title == "" {
			title = collapseSpaces(inlineText(h, src))
		}
		writeBlock(&b, n, src)
	}

	return document.New(filename, title, b.String()), nil
}

// writeBlock renders one block node and its descendants into b.
func writeBlock(b *textBuilder, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		b.heading(node.Level, inlineText(node, src))
	case *ast.Paragraph, *ast.TextBlock:
		b.para(inlineText(node, src))
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		b.para(rawLines(node, src))
	case *ast.ThematicBreak:
	case *ast.List:
		i := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "-"
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d.", i)
				i++
			}
			var inner textBuilder
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				writeBlock(&inner, c, src)
			}
			b.para(marker + " " + strings.Join(inner.blocks, "\n"))
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeBlock(b, c, src)
		}
	}
}

// inlineText concatenates the text of n's inline descendants. Soft and hard
// line breaks are kept as newlines.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
			case *ast.String:
				buf.Write(t.Value)
			case *ast.AutoLink:
				buf.Write(t.URL(src))
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// rawLines returns the source lines of a leaf block verbatim.
func rawLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
