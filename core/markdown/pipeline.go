package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Stashed fences are replaced by \x00<index>\x00. NUL never survives input
// normalization, so no stage can match or produce a placeholder.
const stashMark = "\x00"

var (
	fenceRegex       = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```")
	placeholderRegex = regexp.MustCompile(`\x00(\d+)\x00`)

	// headingRegexes[i] matches level 6-i, longest marker first.
	headingRegexes = func() []*regexp.Regexp {
		res := make([]*regexp.Regexp, 0, 6)
		for level := 6; level >= 1; level-- {
			res = append(res, regexp.MustCompile(`(?m)^`+strings.Repeat("#", level)+` (.*)$`))
		}
		return res
	}()

	ruleRegex     = regexp.MustCompile(`(?m)^(?:---|\*\*\*)$`)
	listItemRegex = regexp.MustCompile(`(?m)^(?:\*|-|\d+\.) (.+)$`)
	listRunRegex  = regexp.MustCompile(`(<li>.*</li>\n?)+`)

	strongEmRegex    = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	strongStarRegex  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strongUnderRegex = regexp.MustCompile(`__(.+?)__`)
	emStarRegex      = regexp.MustCompile(`\*(.+?)\*`)
	emUnderRegex     = regexp.MustCompile(`_(.+?)_`)

	imageRegex      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkRegex       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")

	quoteRegex        = regexp.MustCompile(`(?m)^> (.*)$`)
	escapedQuoteRegex = regexp.MustCompile(`(?m)^&gt; (.*)$`)

	tableRowRegex  = regexp.MustCompile(`\|(.+)\|(\n?)`)
	tableRunRegex  = regexp.MustCompile(`(<tr>.*</tr>\n?)+`)
	separatorRegex = regexp.MustCompile(`^-+$`)
)

var (
	escapeCode = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	escapeAll  = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#039;")
	lineEnds   = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\x00", "\uFFFD")
)

// blockPrefixes are the tags a paragraph segment may already start with.
var blockPrefixes = []string{"<h", "<ul", "<ol", "<blockquote", "<pre", "<table", "<hr", stashMark}

func normalizeInput(src string) string {
	return lineEnds.Replace(src)
}

// pass threads the document through the stages of one Render call.
type pass struct {
	r     *Renderer
	s     string
	stash []string
}

func (p *pass) fences() {
	p.s = replaceSubmatch(fenceRegex, p.s, func(m []string) string {
		p.stash = append(p.stash, p.r.codeBlock(m[1], strings.TrimSpace(m[2])))
		return stashMark + strconv.Itoa(len(p.stash)-1) + stashMark
	})
}

func (r *Renderer) codeBlock(lang, code string) string {
	if lang != "" && r.highlighter != nil {
		if out, ok := r.highlighter.highlight(lang, code); ok {
			return `<pre><code class="language-` + lang + ` hljs">` + out + `</code></pre>`
		}
	}
	if lang == "" {
		lang = "plaintext"
	}
	escaped := escapeCode.Replace(code)
	if r.escapeHTML {
		escaped = escapeAll.Replace(code)
	}
	return `<pre><code class="language-` + lang + `">` + escaped + `</code></pre>`
}

func (p *pass) headings() {
	for i, re := range headingRegexes {
		level := strconv.Itoa(6 - i)
		p.s = re.ReplaceAllString(p.s, "<h"+level+">${1}</h"+level+">")
	}
}

func (p *pass) rules() {
	p.s = ruleRegex.ReplaceAllString(p.s, "<hr>")
}

func (p *pass) lists() {
	p.s = listItemRegex.ReplaceAllString(p.s, "<li>${1}</li>")
	p.s = listRunRegex.ReplaceAllStringFunc(p.s, func(run string) string {
		return wrapRun("ul", run)
	})
}

func (p *pass) emphasis() {
	p.s = strongEmRegex.ReplaceAllString(p.s, "<strong><em>${1}</em></strong>")
	p.s = strongStarRegex.ReplaceAllString(p.s, "<strong>${1}</strong>")
	p.s = strongUnderRegex.ReplaceAllString(p.s, "<strong>${1}</strong>")
	p.s = emStarRegex.ReplaceAllString(p.s, "<em>${1}</em>")
	p.s = emUnderRegex.ReplaceAllString(p.s, "<em>${1}</em>")
}

func (p *pass) images() {
	p.s = imageRegex.ReplaceAllString(p.s, `<img src="${2}" alt="${1}">`)
}

func (p *pass) links() {
	p.s = linkRegex.ReplaceAllString(p.s, p.r.linkTemplate)
}

func (p *pass) inlineCode() {
	p.s = inlineCodeRegex.ReplaceAllString(p.s, "<code>${1}</code>")
}

func (p *pass) blockquotes() {
	re := quoteRegex
	if p.r.escapeHTML {
		re = escapedQuoteRegex
	}
	p.s = re.ReplaceAllString(p.s, "<blockquote>${1}</blockquote>")
}

// tables turns pipe rows into <tr>. A separator row is dropped together
// with its line break so the header and body rows stay in one run.
func (p *pass) tables() {
	p.s = replaceSubmatch(tableRowRegex, p.s, func(m []string) string {
		cells := strings.Split(m[1], "|")
		separator := true
		for i, cell := range cells {
			cells[i] = strings.TrimSpace(cell)
			if !separatorRegex.MatchString(cells[i]) {
				separator = false
			}
		}
		if separator {
			return ""
		}
		var b strings.Builder
		b.WriteString("<tr>")
		for _, cell := range cells {
			b.WriteString("<td>")
			b.WriteString(cell)
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
		b.WriteString(m[2])
		return b.String()
	})
	p.s = tableRunRegex.ReplaceAllStringFunc(p.s, func(run string) string {
		return wrapRun("table", run)
	})
}

// wrapRun encloses a run of rows in tag. The run's final line break stays
// outside the closing tag so a following blank line still splits paragraphs.
func wrapRun(tag, run string) string {
	body := strings.TrimSuffix(run, "\n")
	return "<" + tag + ">" + body + "</" + tag + ">" + run[len(body):]
}

func (p *pass) paragraphs() {
	segments := strings.Split(p.s, "\n\n")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if isBlock(seg) {
			out = append(out, seg)
			continue
		}
		out = append(out, "<p>"+strings.ReplaceAll(seg, "\n", "<br>")+"</p>")
	}
	p.s = strings.Join(out, "\n")
}

func isBlock(seg string) bool {
	for _, prefix := range blockPrefixes {
		if strings.HasPrefix(seg, prefix) {
			return true
		}
	}
	return false
}

func (p *pass) restore() string {
	if len(p.stash) == 0 {
		return p.s
	}
	return replaceSubmatch(placeholderRegex, p.s, func(m []string) string {
		i, err := strconv.Atoi(m[1])
		if err != nil || i >= len(p.stash) {
			return m[0]
		}
		return p.stash[i]
	})
}

// replaceSubmatch is ReplaceAllStringFunc with access to capture groups.
// Unmatched optional groups are passed as "".
func replaceSubmatch(re *regexp.Regexp, s string, fn func(m []string) string) string {
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
