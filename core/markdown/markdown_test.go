package markdown

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestRenderBlocks(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"h1", "# Title", "<h1>Title</h1>"},
		{"h2", "## Title", "<h2>Title</h2>"},
		{"h3", "### Title", "<h3>Title</h3>"},
		{"h6", "###### Title", "<h6>Title</h6>"},
		{"seven hashes", "####### Title", "<p>####### Title</p>"},
		{"no space after hashes", "#Title", "<p>#Title</p>"},
		{"fence with language", "```js\n**x**\n```", `<pre><code class="language-js">**x**</code></pre>`},
		{"fence without language", "```\na < b && c\n```", `<pre><code class="language-plaintext">a &lt; b &amp;&amp; c</code></pre>`},
		{"bold italic", "***bold italic***", "<p><strong><em>bold italic</em></strong></p>"},
		{"bold", "**b** and __u__", "<p><strong>b</strong> and <strong>u</strong></p>"},
		{"italic", "*i* and _u_", "<p><em>i</em> and <em>u</em></p>"},
		{"image", "![alt](pic.png)", `<p><img src="pic.png" alt="alt"></p>`},
		{"link", "[site](http://example.com)", `<p><a href="http://example.com" target="_blank">site</a></p>`},
		{"inline code", "use `fmt` here", "<p>use <code>fmt</code> here</p>"},
		{"blockquote", "> quoted", "<blockquote>quoted</blockquote>"},
		{"rule", "a\n\n---\n\nb", "<p>a</p>\n<hr>\n<p>b</p>"},
		{"star rule", "***", "<hr>"},
		{"list", "- a\n- b", "<ul><li>a</li>\n<li>b</li></ul>"},
		{"ordered list", "1. a\n2. b", "<ul><li>a</li>\n<li>b</li></ul>"},
		{"emphasis in list", "* **bold** item", "<ul><li><strong>bold</strong> item</li></ul>"},
		{"inline markup in table cells", "| **a** | _b_ |\n| --- | --- |\n| `c` | [d](e) |",
			"<table><tr><td><strong>a</strong></td><td><em>b</em></td></tr>\n<tr><td><code>c</code></td><td><a href=\"e\" target=\"_blank\">d</a></td></tr></table>"},
		{"inline markup in blockquote", "> *quoted* [x](u)", `<blockquote><em>quoted</em> <a href="u" target="_blank">x</a></blockquote>`},
		{"line break", "line one\nline two", "<p>line one<br>line two</p>"},
		{"crlf", "# A\r\n\r\ntext", "<h1>A</h1>\n<p>text</p>"},
		{"raw html passes", "<b>x</b>", "<p><b>x</b></p>"},
		{"empty", "", ""},
		{"blank lines only", "\n\n\n\n", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Render(tc.in))
		})
	}
}

func TestRenderFenceIsOpaque(t *testing.T) {
	src := "```\n| a | b |\n\n_x_ # not a heading\n```"
	want := "<pre><code class=\"language-plaintext\">| a | b |\n\n_x_ # not a heading</code></pre>"
	assert.Equal(t, want, Render(src))
}

func TestRenderPlaceholderInjection(t *testing.T) {
	out := Render("```\ncode\n```\n\n\x000\x00")
	assert.Equal(t, 1, strings.Count(out, "<pre>"))
	assert.Contains(t, out, "�0�")
}

func TestRenderTableDropsSeparator(t *testing.T) {
	out := Render("| a | b |\n| --- | --- |\n| 1 | 2 |")
	assert.Equal(t, "<table><tr><td>a</td><td>b</td></tr>\n<tr><td>1</td><td>2</td></tr></table>", out)

	doc := parse(t, out)
	assert.Equal(t, 1, doc.Find("table").Length())
	assert.Equal(t, 2, doc.Find("tr").Length())
	assert.NotContains(t, out, "---")
}

func TestRenderTableKeepsAlignedSeparator(t *testing.T) {
	// Only all-dash cells count as a separator.
	out := Render("| a |\n| :-- |")
	assert.Equal(t, 2, strings.Count(out, "<tr>"))
}

func TestRenderListGrouping(t *testing.T) {
	doc := parse(t, Render("- a\n- b\n\ntext\n\n* c"))
	assert.Equal(t, 2, doc.Find("ul").Length())
	assert.Equal(t, 2, doc.Find("ul").First().Find("li").Length())
	assert.Equal(t, "text", doc.Find("p").Text())
}

func TestRenderImageBeforeLink(t *testing.T) {
	out := Render("see ![logo](logo.png) and [docs](https://example.com/docs)")
	doc := parse(t, out)
	assert.Equal(t, 1, doc.Find("img").Length())
	assert.Equal(t, 1, doc.Find("a").Length())
	assert.Equal(t, "logo.png", doc.Find("img").AttrOr("src", ""))
	assert.NotContains(t, out, "![")
}

func TestRenderTotal(t *testing.T) {
	inputs := []string{
		"```", "```\nunterminated", "|", "||", "| |", "***", "* ", "[", "![](", "](",
		"\x00", "\r\n\r\n", "_*_*", strings.Repeat("*", 1000), strings.Repeat("`", 99),
		"> ", "1.", "<", "\xff\xfe",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = Render(in) }, "input %q", in)
		assert.NotPanics(t, func() { _ = Chat().Render(in) }, "input %q", in)
	}
}

func TestChatEscapesMarkup(t *testing.T) {
	out := Chat().Render("<script>alert('x')</script>\n\n> quote")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;alert(&#039;x&#039;)&lt;/script&gt;")
	assert.Contains(t, out, "<blockquote>quote</blockquote>")
}

func TestChatLinksAreNoopener(t *testing.T) {
	out := Chat().Render("[a](http://x)")
	assert.Equal(t, `<p><a href="http://x" target="_blank" rel="noopener">a</a></p>`, out)
}

func TestHighlighting(t *testing.T) {
	r := New(WithHighlighting(""))
	require.True(t, r.Highlighted())

	out := r.Render("```go\nfunc main() {}\n```")
	assert.Contains(t, out, `<code class="language-go hljs">`)
	assert.Contains(t, out, "<span")

	out = r.Render("```nosuchlang\na < b\n```")
	assert.Equal(t, `<pre><code class="language-nosuchlang">a &lt; b</code></pre>`, out)

	var css bytes.Buffer
	require.NoError(t, r.WriteCSS(&css))
	assert.Contains(t, css.String(), ".chroma")
}

func TestWriteCSSWithoutHighlighting(t *testing.T) {
	var css bytes.Buffer
	require.NoError(t, Notes().WriteCSS(&css))
	assert.Empty(t, css.String())
	assert.False(t, Notes().Highlighted())
}

func TestSanitizer(t *testing.T) {
	r := New(WithSanitizer())

	out := r.Render("hello <script>alert(1)</script>\n\n<img src=x onerror=\"alert(1)\">")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "hello")

	out = r.Render("# Title\n\n```go\nx\n```\n\n[a](https://example.com)")
	doc := parse(t, out)
	assert.Equal(t, "Title", doc.Find("h1").Text())
	assert.Equal(t, "language-go", doc.Find("pre code").AttrOr("class", ""))
	assert.Equal(t, "_blank", doc.Find("a").AttrOr("target", ""))
}

func TestRendererConcurrentUse(t *testing.T) {
	r := Chat()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := r.Render("# T\n\n```go\nx := 1\n```\n\n- a\n- b")
			assert.Contains(t, out, "<h1>T</h1>")
		}()
	}
	wg.Wait()
}

func TestConvertNeverFails(t *testing.T) {
	out, err := Notes().Convert("## x")
	require.NoError(t, err)
	assert.Equal(t, "<h2>x</h2>", out)
}
