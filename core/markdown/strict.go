package markdown

import (
	"bytes"
	"fmt"
	"io"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// Strict converts through goldmark with GitHub Flavored Markdown. It is
// used for exports, where a real parser matters more than matching the
// preview byte for byte. Raw HTML in the source is omitted.
type Strict struct {
	md    goldmark.Markdown
	style string
}

// NewStrict builds a Strict converter. A non-empty style enables chroma
// highlighting of fenced code.
func NewStrict(style string) *Strict {
	exts := []goldmark.Extender{extension.GFM}
	if style != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}
	return &Strict{
		md:    goldmark.New(goldmark.WithExtensions(exts...)),
		style: style,
	}
}

// Convert implements core.Converter.
func (s *Strict) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(normalizeInput(src)), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// WriteCSS writes the chroma stylesheet when highlighting is enabled.
func (s *Strict) WriteCSS(w io.Writer) error {
	if s.style == "" {
		return nil
	}
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, styles.Get(s.style))
}
