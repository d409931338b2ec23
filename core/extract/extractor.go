// Package extract implements the Extractor interface.
// It isolates the main content of an HTML page for import as a note by:
//  1. Reading the page title and language
//  2. Removing noise elements (nav, footer, scripts, forms, etc.)
//  3. Finding the best content container (<main>, <article>, or <body>)
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/notepipe/core"
)

const defaultLanguage = "en"

// noiseSelectors are HTML elements removed before extraction. Images stay:
// notes render them.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "header", "aside",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	"[aria-hidden=true]",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// HTMLExtractor strips noise from HTML and returns the main content fragment.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses html and returns its main content with the page title and
// language.
func (e *HTMLExtractor) Extract(html string) (*core.Extracted, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	lang := strings.TrimSpace(doc.Find("html").First().AttrOr("lang", ""))
	if lang == "" {
		lang = defaultLanguage
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	// <main> is the most semantically correct, then <article>, then <body>.
	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return nil, fmt.Errorf("no content container found in HTML")
	}

	fragment, err := content.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing content: %w", err)
	}

	return &core.Extracted{
		HTML:     strings.TrimSpace(fragment),
		Title:    title,
		Language: lang,
	}, nil
}
