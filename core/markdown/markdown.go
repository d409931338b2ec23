// Package markdown converts the notes Markdown dialect into HTML for the
// preview pane.
//
// The converter is a fixed chain of global regexp substitutions, not a
// parser. Stage order carries the precedence rules: fences before
// everything, longer heading and emphasis markers before shorter ones,
// images before links. Any input produces some output.
//
// Raw HTML outside code fences passes through untouched unless the
// Renderer escapes or sanitizes it. Output from Render must not be shown
// to anyone but the author without WithEscapeHTML or WithSanitizer.
package markdown

import (
	"github.com/microcosm-cc/bluemonday"
)

// DefaultStyle is the chroma style used when highlighting is requested
// without a style name.
const DefaultStyle = "github"

// Renderer holds the options of one dialect. It is immutable once built
// and safe for concurrent use.
type Renderer struct {
	escapeHTML  bool
	linkRel     string
	highlighter *highlighter
	policy      *bluemonday.Policy

	linkTemplate string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEscapeHTML escapes & < > " ' outside code fences before any inline
// stage runs, so author-supplied markup is shown as text.
func WithEscapeHTML() Option {
	return func(r *Renderer) {
		r.escapeHTML = true
	}
}

// WithLinkRel adds a rel attribute to every generated link.
func WithLinkRel(rel string) Option {
	return func(r *Renderer) {
		r.linkRel = rel
	}
}

// WithHighlighting tokenises fences whose language chroma recognises.
// An empty style selects DefaultStyle.
func WithHighlighting(style string) Option {
	return func(r *Renderer) {
		if style == "" {
			style = DefaultStyle
		}
		r.highlighter = newHighlighter(style)
	}
}

// WithSanitizer filters the finished HTML through a UGC policy.
func WithSanitizer() Option {
	return func(r *Renderer) {
		r.policy = newPolicy()
	}
}

// New builds a Renderer. With no options it behaves like the notes preview.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	r.linkTemplate = `<a href="${2}" target="_blank">${1}</a>`
	if r.linkRel != "" {
		r.linkTemplate = `<a href="${2}" target="_blank" rel="` + r.linkRel + `">${1}</a>`
	}
	return r
}

// Notes returns the notes preview dialect.
func Notes() *Renderer {
	return New()
}

// Chat returns the chat dialect: escaped input, highlighted fences and
// noopener links.
func Chat() *Renderer {
	return New(WithEscapeHTML(), WithLinkRel("noopener"), WithHighlighting(DefaultStyle))
}

var notes = Notes()

// Render converts src with the notes dialect.
func Render(src string) string {
	return notes.Render(src)
}

// Render converts src to an HTML fragment.
func (r *Renderer) Render(src string) string {
	p := &pass{r: r, s: normalizeInput(src)}
	p.fences()
	if r.escapeHTML {
		p.s = escapeAll.Replace(p.s)
	}
	p.headings()
	p.rules()
	p.lists()
	p.emphasis()
	p.images()
	p.links()
	p.inlineCode()
	p.blockquotes()
	p.tables()
	p.paragraphs()
	out := p.restore()
	if r.policy != nil {
		out = r.policy.Sanitize(out)
	}
	return out
}

// Convert implements core.Converter. It never fails.
func (r *Renderer) Convert(src string) (string, error) {
	return r.Render(src), nil
}

// Highlighted reports whether fences are tokenised with chroma.
func (r *Renderer) Highlighted() bool {
	return r.highlighter != nil
}
