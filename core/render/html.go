// Package render — HTML renderers.
// The fragment renderer feeds the preview pane; the document renderer
// produces a standalone page for export.
package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/gaurav-prasanna/notepipe/core"
)

// stylesheeter is implemented by converters that emit highlighted code.
type stylesheeter interface {
	WriteCSS(w io.Writer) error
}

// HTMLRenderer renders a note body as an HTML fragment.
type HTMLRenderer struct {
	conv core.Converter
}

// NewHTMLRenderer creates an HTMLRenderer using conv.
func NewHTMLRenderer(conv core.Converter) *HTMLRenderer {
	return &HTMLRenderer{conv: conv}
}

// Render converts the note content to an HTML fragment.
func (r *HTMLRenderer) Render(n core.Note) ([]byte, error) {
	fragment, err := r.conv.Convert(n.Content)
	if err != nil {
		return nil, err
	}
	return []byte(fragment), nil
}

// Extension returns the file extension for fragment output.
func (r *HTMLRenderer) Extension() string {
	return ".fragment.html"
}

const documentCSS = `body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 800px; margin: 0 auto; padding: 2rem; }
pre { background: #f4f4f4; padding: 1rem; border-radius: 4px; overflow-x: auto; }
code { background: #f4f4f4; padding: 0.2rem 0.4rem; border-radius: 3px; }
blockquote { border-left: 4px solid #ddd; margin: 0; padding-left: 1rem; color: #555; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background: #f4f4f4; }
img { max-width: 100%; }
`

const documentPage = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s</style>
</head>
<body>
<h1>%s</h1>
%s
</body>
</html>
`

// DocumentRenderer renders a note as a standalone HTML page.
type DocumentRenderer struct {
	conv core.Converter
}

// NewDocumentRenderer creates a DocumentRenderer using conv.
func NewDocumentRenderer(conv core.Converter) *DocumentRenderer {
	return &DocumentRenderer{conv: conv}
}

// Render wraps the converted note in a page with its title and stylesheet.
func (r *DocumentRenderer) Render(n core.Note) ([]byte, error) {
	fragment, err := r.conv.Convert(n.Content)
	if err != nil {
		return nil, err
	}

	var css strings.Builder
	css.WriteString(documentCSS)
	if s, ok := r.conv.(stylesheeter); ok {
		if err := s.WriteCSS(&css); err != nil {
			return nil, fmt.Errorf("writing highlight stylesheet: %w", err)
		}
	}

	lang := n.Metadata.Language
	if lang == "" {
		lang = "en"
	}
	title := html.EscapeString(n.Metadata.Title)
	page := fmt.Sprintf(documentPage, html.EscapeString(lang), title, css.String(), title, fragment)
	return []byte(page), nil
}

// Extension returns the file extension for document output.
func (r *DocumentRenderer) Extension() string {
	return ".html"
}
