// Package core defines the note pipeline types and the interfaces of each
// stage. Each stage is a clean, testable interface.
package core

import (
	"context"
	"errors"
)

// ErrEmptyNote is returned when a stage produces a note with no content.
var ErrEmptyNote = errors.New("note has no content")

// FetchResult holds the raw body of a loaded note or page.
type FetchResult struct {
	Location   string
	StatusCode int // 0 for files and stdin
	Body       string
}

// NoteMetadata holds front matter and derived fields of a note.
type NoteMetadata struct {
	Source    string   `json:"source"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	Folder    string   `json:"folder,omitempty"`
	Favorite  bool     `json:"favorite"`
	Language  string   `json:"language"`
	WordCount int      `json:"word_count"`
	LoadedAt  string   `json:"loaded_at"` // ISO8601
}

// Note is a Markdown document with its metadata. Content excludes front
// matter.
type Note struct {
	Metadata NoteMetadata
	Content  string
}

// Section represents a heading-delimited section of content.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// Heading represents a single heading found in the rendered note.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in the rendered note.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Image represents an image found in the rendered note.
type Image struct {
	Alt string `json:"alt"`
	Src string `json:"src"`
}

// NoteContent holds the note in each of its textual forms.
type NoteContent struct {
	Markdown string    `json:"markdown"`
	HTML     string    `json:"html"`
	Text     string    `json:"text"`
	Excerpt  string    `json:"excerpt"`
	Sections []Section `json:"sections"`
}

// NoteStructure holds structural counts taken from the rendered HTML.
type NoteStructure struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	Images     []Image   `json:"images"`
	CodeBlocks int       `json:"code_blocks"`
	Tables     int       `json:"tables"`
	ListItems  int       `json:"list_items"`
}

// NoteJSON is the complete JSON export of a single note.
type NoteJSON struct {
	Metadata  NoteMetadata  `json:"metadata"`
	Content   NoteContent   `json:"content"`
	Structure NoteStructure `json:"structure"`
}

// Extracted is the main content of an HTML page plus the page attributes
// an imported note keeps.
type Extracted struct {
	HTML     string
	Title    string
	Language string
}

// Fetcher loads raw text from a file path, stdin or URL.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*FetchResult, error)
}

// Extractor pulls the main content from raw HTML, stripping noise.
type Extractor interface {
	Extract(html string) (*Extracted, error)
}

// Normalizer converts cleaned HTML into Markdown. base, when set, is the
// origin relative links are resolved against.
type Normalizer interface {
	Normalize(html string, base string) (string, error)
}

// Converter turns note Markdown into an HTML fragment.
type Converter interface {
	Convert(markdown string) (string, error)
}

// Renderer converts a note into a final output format.
type Renderer interface {
	Render(note Note) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".pdf").
	Extension() string
}
