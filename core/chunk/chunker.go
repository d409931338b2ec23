// Package chunk splits note text into runs of words. Words are the
// whitespace-separated fields used for the note word count.
package chunk

import "strings"

// DefaultExcerptWords is the excerpt length shown in note listings.
const DefaultExcerptWords = 30

// Chunker splits text into runs of at most Size words.
type Chunker struct {
	Size int
}

// New creates a Chunker. Defaults to DefaultExcerptWords if size <= 0.
func New(size int) *Chunker {
	if size <= 0 {
		size = DefaultExcerptWords
	}
	return &Chunker{Size: size}
}

// Chunk splits text into runs of at most Size words joined by spaces.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+c.Size-1)/c.Size)
	for start := 0; start < len(words); start += c.Size {
		end := min(start+c.Size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// Excerpt returns the first chunk, with an ellipsis when text is longer.
func (c *Chunker) Excerpt(text string) string {
	chunks := c.Chunk(text)
	switch len(chunks) {
	case 0:
		return ""
	case 1:
		return chunks[0]
	default:
		return chunks[0] + "…"
	}
}

// Count returns the number of words in text.
func Count(text string) int {
	return len(strings.Fields(text))
}
