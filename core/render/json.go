// Package render — JSON renderer.
// Builds the structured JSON export of a note. Structure is read from the
// rendered HTML so the counts agree with what the preview shows; sections and
// plain text come from the Markdown source.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/notepipe/core"
	"github.com/gaurav-prasanna/notepipe/core/chunk"
)

// JSONRenderer produces structured JSON output from a note.
type JSONRenderer struct {
	conv    core.Converter
	excerpt *chunk.Chunker
}

// NewJSONRenderer creates a JSONRenderer using conv for the HTML form.
func NewJSONRenderer(conv core.Converter) *JSONRenderer {
	return &JSONRenderer{conv: conv, excerpt: chunk.New(chunk.DefaultExcerptWords)}
}

// Render converts the note into the JSON export document.
func (r *JSONRenderer) Render(n core.Note) ([]byte, error) {
	fragment, err := r.conv.Convert(n.Content)
	if err != nil {
		return nil, err
	}

	structure, err := extractStructure(fragment)
	if err != nil {
		return nil, err
	}

	text := stripMarkdown(n.Content)
	doc := core.NoteJSON{
		Metadata: n.Metadata,
		Content: core.NoteContent{
			Markdown: n.Content,
			HTML:     fragment,
			Text:     text,
			Excerpt:  r.excerpt.Excerpt(text),
			Sections: buildSections(n.Content),
		},
		Structure: structure,
	}
	if doc.Metadata.Tags == nil {
		doc.Metadata.Tags = []string{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// extractStructure counts the elements of an HTML fragment.
func extractStructure(fragment string) (core.NoteStructure, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return core.NoteStructure{}, fmt.Errorf("parsing rendered note: %w", err)
	}

	s := core.NoteStructure{
		Headings: []core.Heading{},
		Links:    []core.Link{},
		Images:   []core.Image{},
	}

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
		name := goquery.NodeName(h)
		s.Headings = append(s.Headings, core.Heading{
			Level: int(name[1] - '0'),
			Text:  strings.TrimSpace(h.Text()),
		})
	})
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		s.Links = append(s.Links, core.Link{Text: strings.TrimSpace(a.Text()), Href: href})
	})
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		alt, _ := img.Attr("alt")
		s.Images = append(s.Images, core.Image{Alt: alt, Src: src})
	})
	s.CodeBlocks = doc.Find("pre").Length()
	s.Tables = doc.Find("table").Length()
	s.ListItems = doc.Find("li").Length()

	return s, nil
}

// --- Markdown helpers ---

var (
	headingRegex   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	mdHeadingRegex = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	mdImageRegex   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	mdLinkRegex    = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	mdEmRegex      = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
	mdCodeRegex    = regexp.MustCompile("`([^`]+)`")
	mdQuoteRegex   = regexp.MustCompile(`(?m)^> ?`)
	blankRunRegex  = regexp.MustCompile(`\n{3,}`)
)

// buildSections splits the note at headings outside fenced code.
func buildSections(md string) []core.Section {
	var (
		sections []core.Section
		current  *core.Section
		body     []string
		inFence  bool
	)

	flush := func() {
		if current != nil {
			current.Text = strings.TrimSpace(strings.Join(body, "\n"))
			sections = append(sections, *current)
		}
	}

	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRegex.FindStringSubmatch(line); m != nil {
				flush()
				current = &core.Section{Heading: strings.TrimSpace(m[2]), Level: len(m[1])}
				body = nil
				continue
			}
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	if sections == nil {
		return []core.Section{}
	}
	return sections
}

// stripMarkdown removes common Markdown formatting to produce plain text.
func stripMarkdown(md string) string {
	text := strings.ReplaceAll(md, "\r\n", "\n")
	text = mdHeadingRegex.ReplaceAllString(text, "$1")
	text = mdImageRegex.ReplaceAllString(text, "$1")
	text = mdLinkRegex.ReplaceAllString(text, "$1")
	text = mdEmRegex.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "```", "")
	text = mdCodeRegex.ReplaceAllString(text, "$1")
	text = mdQuoteRegex.ReplaceAllString(text, "")
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
