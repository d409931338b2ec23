// Package render provides output renderers for notes.
// This file implements the Markdown renderer, which writes the note source
// back out, optionally with its front matter.
package render

import (
	"github.com/gaurav-prasanna/notepipe/core"
	"github.com/gaurav-prasanna/notepipe/core/note"
)

// MarkdownRenderer writes Markdown as-is. It's the simplest renderer
// since Markdown is already the canonical note format.
type MarkdownRenderer struct {
	FrontMatter bool
}

// NewMarkdownRenderer creates a MarkdownRenderer. With frontMatter set the
// note metadata is written as a leading YAML block.
func NewMarkdownRenderer(frontMatter bool) *MarkdownRenderer {
	return &MarkdownRenderer{FrontMatter: frontMatter}
}

// Render returns the note content as bytes.
func (r *MarkdownRenderer) Render(n core.Note) ([]byte, error) {
	if !r.FrontMatter {
		return []byte(n.Content), nil
	}
	body, err := note.Compose(n)
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
