package markdown

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter renders fence bodies as class-annotated spans. The matching
// stylesheet comes from WriteCSS.
type highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newHighlighter(style string) *highlighter {
	return &highlighter{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// highlight returns false when the language is unknown or tokenising
// fails; the caller then falls back to escaped text.
func (h *highlighter) highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", false
	}
	return buf.String(), true
}

// WriteCSS writes the stylesheet for highlighted fences. It writes nothing
// when highlighting is off.
func (r *Renderer) WriteCSS(w io.Writer) error {
	if r.highlighter == nil {
		return nil
	}
	return r.highlighter.formatter.WriteCSS(w, r.highlighter.style)
}
