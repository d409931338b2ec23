// Package note builds core.Note values from raw file bodies: YAML front
// matter, the title fallback chain and the word count.
package note

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/notepipe/core"
	"github.com/gaurav-prasanna/notepipe/core/chunk"
)

const (
	delimiter       = "---"
	defaultLanguage = "en"
	untitled        = "Untitled"
)

// FrontMatter is the YAML block a note file may start with.
type FrontMatter struct {
	Title    string   `yaml:"title,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Folder   string   `yaml:"folder,omitempty"`
	Favorite bool     `yaml:"favorite,omitempty"`
}

var headingRegex = regexp.MustCompile(`(?m)^#{1,6} (.+)$`)

// Parse builds a Note from body as loaded from location. Malformed front
// matter is left in the content and ignored.
func Parse(location, body string) core.Note {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	var fm FrontMatter
	content := body
	if raw, rest, ok := splitFrontMatter(body); ok {
		if err := yaml.Unmarshal([]byte(raw), &fm); err == nil {
			content = rest
		} else {
			fm = FrontMatter{}
		}
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = firstHeading(content)
	}
	if title == "" {
		title = titleFromLocation(location)
	}

	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}

	return core.Note{
		Metadata: core.NoteMetadata{
			Source:    location,
			Title:     title,
			Tags:      tags,
			Folder:    fm.Folder,
			Favorite:  fm.Favorite,
			Language:  defaultLanguage,
			WordCount: chunk.Count(content),
			LoadedAt:  time.Now().UTC().Format(time.RFC3339),
		},
		Content: content,
	}
}

// Compose renders n back into a file body with front matter.
func Compose(n core.Note) (string, error) {
	fm := FrontMatter{
		Title:    n.Metadata.Title,
		Tags:     n.Metadata.Tags,
		Folder:   n.Metadata.Folder,
		Favorite: n.Metadata.Favorite,
	}
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}
	content := strings.TrimLeft(n.Content, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return delimiter + "\n" + string(data) + delimiter + "\n\n" + content, nil
}

// splitFrontMatter separates a leading ---/--- block from the rest of body.
func splitFrontMatter(body string) (raw, rest string, ok bool) {
	if !strings.HasPrefix(body, delimiter+"\n") {
		return "", "", false
	}
	inner := body[len(delimiter):]
	end := strings.Index(inner, "\n"+delimiter)
	if end < 0 {
		return "", "", false
	}
	after := inner[end+1+len(delimiter):]
	switch {
	case after == "":
	case after[0] == '\n':
		after = after[1:]
	default:
		// "---" followed by more text on the same line is not a delimiter.
		return "", "", false
	}
	return inner[:end], strings.TrimLeft(after, "\n"), true
}

func firstHeading(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := headingRegex.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func titleFromLocation(location string) string {
	if location == "" || location == "-" {
		return untitled
	}
	name := location
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		name = path.Base(strings.TrimSuffix(u.Path, "/"))
		if name == "." || name == "/" || name == "" {
			return u.Host
		}
	} else {
		name = filepath.Base(location)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		return untitled
	}
	return name
}
