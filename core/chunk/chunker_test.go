package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	c := New(2)
	assert.Equal(t, []string{"a b", "c d", "e"}, c.Chunk(" a  b\nc\td e "))
	assert.Nil(t, c.Chunk("  \n "))
}

func TestNewDefaultsSize(t *testing.T) {
	assert.Equal(t, DefaultExcerptWords, New(0).Size)
	assert.Equal(t, DefaultExcerptWords, New(-3).Size)
}

func TestExcerpt(t *testing.T) {
	c := New(3)
	assert.Equal(t, "", c.Excerpt(""))
	assert.Equal(t, "one two", c.Excerpt("one two"))
	assert.Equal(t, "one two three…", c.Excerpt("one two three four"))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(""))
	assert.Equal(t, 4, Count("# Title\n\nsome   words"))
}
