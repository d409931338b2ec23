// Package render — PDF renderer.
// Lays out note Markdown line by line with gofpdf: headings, paragraphs,
// code blocks, lists, quotes, rules and tables. Images become their alt text.
package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/notepipe/core"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders note Markdown as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var (
	numberedRegex  = regexp.MustCompile(`^\d+\.\s`)
	pdfRuleRegex   = regexp.MustCompile(`^(?:---|\*\*\*)$`)
	pdfSepRegex    = regexp.MustCompile(`^\|[-:| ]+\|$`)
	pdfImageRegex  = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	pdfLinkRegex   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	pdfCodeRegex   = regexp.MustCompile("`([^`]+)`")
	pdfStrongRegex = regexp.MustCompile(`(\*\*\*|\*\*|__)(.+?)(\*\*\*|\*\*|__)`)
	pdfEmRegex     = regexp.MustCompile(`(^|\s)[*_]([^*_]+)[*_](\s|$)`)
	pdfHeadRegex   = regexp.MustCompile(`^(#{1,6}) (.*)$`)
)

// Render converts the note into PDF bytes.
func (r *PDFRenderer) Render(n core.Note) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if n.Metadata.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(n.Metadata.Title), "", "L", false)
		pdf.Ln(4)
	}

	if n.Metadata.Source != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+n.Metadata.Source), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	lines := strings.Split(n.Content, "\n")
	inCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			continue
		}

		switch {
		case trimmed == "":
			pdf.Ln(3)

		case isHeading(line):
			text, level := parseHeading(line)
			renderHeading(pdf, tr(cleanInlineMarkdown(text)), level)

		case pdfRuleRegex.MatchString(trimmed):
			pdf.Ln(2)
			y := pdf.GetY()
			w, _ := pdf.GetPageSize()
			left, _, right, _ := pdf.GetMargins()
			pdf.SetDrawColor(200, 200, 200)
			pdf.Line(left, y, w-right, y)
			pdf.Ln(3)

		case strings.HasPrefix(trimmed, "> "):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(85, 85, 85)
			pdf.SetX(pdf.GetX() + 5)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed[2:])), "L", "L", false)
			pdf.SetTextColor(0, 0, 0)

		case pdfSepRegex.MatchString(trimmed):
			// Table separator rows carry no content.

		case strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) > 1:
			cells := strings.Split(trimmed[1:len(trimmed)-1], "|")
			for i, c := range cells {
				cells[i] = tr(cleanInlineMarkdown(c))
			}
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, strings.Join(cells, "  |  "), "B", "L", false)

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+cleanInlineMarkdown(trimmed[2:])), "", "L", false)

		case numberedRegex.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)

		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(line)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// isHeading matches the preview pipeline: one to six hashes and a space.
func isHeading(line string) bool {
	return pdfHeadRegex.MatchString(line)
}

func parseHeading(line string) (string, int) {
	m := pdfHeadRegex.FindStringSubmatch(line)
	if m == nil {
		return line, 0
	}
	return m[2], len(m[1])
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = pdfImageRegex.ReplaceAllString(text, "$1")
	text = pdfLinkRegex.ReplaceAllString(text, "$1")
	text = pdfStrongRegex.ReplaceAllString(text, "$2")
	// Single markers only at word edges, so snake_case survives. A match
	// consumes its trailing space, so adjacent spans need another pass.
	for prev := ""; prev != text; {
		prev = text
		text = pdfEmRegex.ReplaceAllString(text, "${1}${2}${3}")
	}
	text = pdfCodeRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
