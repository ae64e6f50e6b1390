// Package document holds the normalised text of a parsed legal instrument
// and the chunks produced from it.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/lexchunk/internal/chunker"
)

// idLen is the number of hash characters used as a document ID.
const idLen = 16

// Document is the full text of one source file, normalised so that
// structural headings sit on their own lines and blocks are separated by
// blank lines.
type Document struct {
	ID          string // Prefix of ContentHash.
	Title       string // From metadata, or the filename without extension.
	Filename    string
	Text        string
	ContentHash string // SHA-256 of Text, hex encoded.
}

// New builds a Document, deriving its hash and ID from text. An empty title
// falls back to the filename without its extension.
func New(filename, title, text string) *Document {
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	hash := ContentHashHex([]byte(text))
	return &Document{
		ID:          hash[:idLen],
		Title:       title,
		Filename:    filename,
		Text:        text,
		ContentHash: hash,
	}
}

// Chunk is one segment of a document, in document order.
type Chunk struct {
	DocID  string `json:"doc_id"`
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Chars  int    `json:"chars"`
	Tokens int    `json:"estimated_tokens"`
}

// NewChunks wraps segmenter output for docID, numbering from zero.
func NewChunks(docID string, texts []string) []Chunk {
	chunks := make([]Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = Chunk{
			DocID:  docID,
			Index:  i,
			Text:   t,
			Chars:  utf8.RuneCountInString(t),
			Tokens: chunker.EstimateTokens(t),
		}
	}
	return chunks
}

// ContentHashHex returns the hex SHA-256 of data.
func ContentHashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
