package app

import (
	"fmt"
	"os"

	"github.com/dshills/sidenote/internal/annotation"
)

// Document is the in-memory text buffer of the viewer. It implements
// the host-side text interfaces: range reads, revision tracking, and
// offset edits. Offsets are bytes.
type Document struct {
	text     string
	revision uint64
	path     string
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// LoadDocument reads a file into a new document.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return &Document{text: string(data), path: path}, nil
}

// Text returns the full document text.
func (d *Document) Text() string { return d.text }

// Len returns the document length in bytes.
func (d *Document) Len() int { return len(d.text) }

// Path returns the backing file path, if any.
func (d *Document) Path() string { return d.path }

// TextRange returns the text in [from, to). Out-of-range bounds are
// clamped rather than panicking; decoration offsets can briefly trail
// the text during an edit burst.
func (d *Document) TextRange(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(d.text) {
		to = len(d.text)
	}
	if from >= to {
		return ""
	}
	return d.text[from:to]
}

// Revision returns the edit counter. It increments on every change.
func (d *Document) Revision() uint64 { return d.revision }

// ApplyEdit replaces [from, to) with replacement.
func (d *Document) ApplyEdit(from, to int, replacement string) error {
	if from < 0 || to > len(d.text) || from > to {
		return fmt.Errorf("edit range [%d,%d) out of bounds (len %d)", from, to, len(d.text))
	}
	d.text = d.text[:from] + replacement + d.text[to:]
	d.revision++
	return nil
}

// Save writes the document back to its file.
func (d *Document) Save() error {
	if d.path == "" {
		return fmt.Errorf("document has no file path")
	}
	if err := os.WriteFile(d.path, []byte(d.text), 0o644); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Lines splits the document into lines without trailing newlines,
// returning each line's starting byte offset alongside its text.
func (d *Document) Lines() []Line {
	var lines []Line
	start := 0
	for i := 0; i < len(d.text); i++ {
		if d.text[i] == '\n' {
			lines = append(lines, Line{Offset: start, Text: d.text[start:i]})
			start = i + 1
		}
	}
	lines = append(lines, Line{Offset: start, Text: d.text[start:]})
	return lines
}

// Line is one display line with its document offset.
type Line struct {
	Offset int
	Text   string
}

// LineAt returns the index of the line containing the byte offset.
func (d *Document) LineAt(offset int) int {
	line := 0
	for i := 0; i < offset && i < len(d.text); i++ {
		if d.text[i] == '\n' {
			line++
		}
	}
	return line
}

// ClampOffset restricts an offset to the valid document range.
func (d *Document) ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(d.text) {
		return len(d.text)
	}
	return offset
}

// Window returns the span covering the whole document. The viewer is
// built for annotation-sized files, so it does not window by viewport.
func (d *Document) Window() annotation.Span {
	return annotation.Span{From: 0, To: len(d.text)}
}
