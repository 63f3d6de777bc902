package present

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tabstat/domain/dataset"
)

// Report collects shaped results for one table
type Report struct {
	Title    string
	Metadata dataset.Metadata
	Views    []View
}

// Markdown renders the report as GitHub-style markdown tables. Multi-line
// cells are joined with <br> so each entry stays on one table row.
func (r Report) Markdown() string {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = r.Metadata.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", escapeCell(title))
	if r.Metadata.Name != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", r.Metadata.Path)
		fmt.Fprintf(&b, "- Rows: %d\n", r.Metadata.Rows)
		fmt.Fprintf(&b, "- Columns: %d\n\n", r.Metadata.Cols)
	}
	fmt.Fprintf(&b, "%s\n", StatusLine(r.Metadata.Cols))

	for _, v := range r.Views {
		fmt.Fprintf(&b, "\n## %s\n\n", v.Statistic)
		switch {
		case v.Columns != nil:
			writeColumnTable(&b, *v.Columns)
		case v.Matrix != nil:
			writeMatrixTable(&b, *v.Matrix)
		}
	}
	return b.String()
}

// HTML renders the report's markdown as a standalone HTML page
func (r Report) HTML() []byte {
	return MarkdownToHTML([]byte(r.Markdown()), r.Title)
}

// MarkdownToHTML converts markdown to a complete HTML document
func MarkdownToHTML(md []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

func writeColumnTable(b *strings.Builder, v ColumnView) {
	if len(v.Entries) == 0 {
		fmt.Fprintf(b, "%s\n", Placeholder)
		return
	}
	b.WriteString("| Column | Value |\n|---|---|\n")
	for _, e := range v.Entries {
		fmt.Fprintf(b, "| %s | %s |\n", escapeCell(e.Column), escapeCell(e.Text))
	}
}

func writeMatrixTable(b *strings.Builder, v MatrixView) {
	if len(v.Columns) == 0 {
		fmt.Fprintf(b, "%s\n", Placeholder)
		return
	}
	b.WriteString("| |")
	for _, c := range v.Columns {
		fmt.Fprintf(b, " %s |", escapeCell(c))
	}
	b.WriteString("\n|---|")
	for range v.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, row := range v.Cells {
		fmt.Fprintf(b, "| %s |", escapeCell(v.Columns[i]))
		for _, cell := range row {
			fmt.Fprintf(b, " %s |", escapeCell(cell))
		}
		b.WriteString("\n")
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}
