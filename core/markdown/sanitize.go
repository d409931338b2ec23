package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	classRegex  = regexp.MustCompile(`^[A-Za-z0-9_\- ]+$`)
	targetRegex = regexp.MustCompile(`^_blank$`)
)

// newPolicy extends the UGC policy with what the renderer itself emits:
// language and chroma classes on code, and target on links.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classRegex).OnElements("pre", "code", "span")
	p.AllowAttrs("target").Matching(targetRegex).OnElements("a")
	return p
}
