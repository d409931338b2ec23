// Package render — terminal renderer.
// Renders a note as ANSI-styled text for reading in a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/gaurav-prasanna/notepipe/core"
)

// TerminalRenderer renders notes with glamour.
type TerminalRenderer struct {
	Style string // a glamour standard style, e.g. "dark" or "dracula"
	Width int
}

// NewTerminalRenderer creates a TerminalRenderer. Empty style means "dark";
// width <= 0 means 80 columns.
func NewTerminalRenderer(style string, width int) *TerminalRenderer {
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	return &TerminalRenderer{Style: style, Width: width}
}

// Render returns the note with a title header, styled for the terminal.
func (r *TerminalRenderer) Render(n core.Note) ([]byte, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.Style),
		glamour.WithWordWrap(r.Width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	var md strings.Builder
	if n.Metadata.Title != "" && !strings.HasPrefix(strings.TrimSpace(n.Content), "# ") {
		fmt.Fprintf(&md, "# %s\n\n", n.Metadata.Title)
	}
	if len(n.Metadata.Tags) > 0 {
		fmt.Fprintf(&md, "> **Tags:** %s\n\n", strings.Join(n.Metadata.Tags, ", "))
	}
	md.WriteString(n.Content)

	out, err := tr.Render(md.String())
	if err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	return []byte(out), nil
}

// Extension returns the file extension for terminal output.
func (r *TerminalRenderer) Extension() string {
	return ".ansi"
}
