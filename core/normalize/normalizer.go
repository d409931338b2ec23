// Package normalize implements the Normalizer interface.
// It converts cleaned HTML into Markdown, the format notes are stored in.
package normalize

import (
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts an HTML fragment into Markdown. When base is a URL,
// relative links and image sources are resolved against its origin.
func (n *MarkdownNormalizer) Normalize(html string, base string) (string, error) {
	var opts []converter.ConvertOptionFunc
	if domain := origin(base); domain != "" {
		opts = append(opts, converter.WithDomain(domain))
	}

	markdown, err := htmltomarkdown.ConvertString(html, opts...)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// origin returns scheme://host of base, or "" when base is not a URL.
func origin(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
