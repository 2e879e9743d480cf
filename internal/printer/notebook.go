package printer

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"
)

// notebookPrinter emits HTML for a rich notebook frontend. Output goes to
// stdout, where the kernel's display hook picks it up.
type notebookPrinter struct {
	buffers
	out io.Writer
}

func newNotebookPrinter() *notebookPrinter {
	return &notebookPrinter{out: os.Stdout}
}

func (p *notebookPrinter) Display() {
	if len(p.info) > 0 {
		fmt.Fprintln(p.out, strings.Join(p.info, "<br/>"))
		p.info = nil
	}
	if len(p.warnings) > 0 {
		fmt.Fprintln(p.out, strings.Join(p.warnings, "<br/>"))
		p.warnings = nil
	}
	if len(p.errs) > 0 {
		fmt.Fprintln(p.out, strings.Join(p.errs, "<br/>"))
		p.errs = nil
	}
}

func (p *notebookPrinter) Code(text string) string {
	return "<code>" + html.EscapeString(text) + "</code>"
}

func (p *notebookPrinter) Name(text string) string {
	return `<strong style="color:#cdcd00">` + html.EscapeString(text) + `</strong>`
}

func (p *notebookPrinter) Link(url, text string) string {
	if text == "" {
		text = url
	}
	return fmt.Sprintf(`<a href=%q target="_blank">%s</a>`, url, html.EscapeString(text))
}

// Emoji is empty in notebooks; frontends render their own affordances.
func (p *notebookPrinter) Emoji(name string) string {
	return ""
}

func (p *notebookPrinter) Status(text string, failure bool) string {
	color := "green"
	if failure {
		color = "red"
	}
	return fmt.Sprintf(`<strong style="color:%s">%s</strong>`, color, html.EscapeString(text))
}

func (p *notebookPrinter) Files(text string) string {
	return "<code>" + html.EscapeString(text) + "</code>"
}

func (p *notebookPrinter) Grid(rows [][]string, title string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("<h3>" + html.EscapeString(title) + "</h3><br/>")
	}
	b.WriteString(`<table class="tracklet">`)
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + cell + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table><br/>")
	return b.String()
}

func (p *notebookPrinter) Panel(columns []string) string {
	var b strings.Builder
	b.WriteString(`<div class="tracklet-row">`)
	for _, col := range columns {
		b.WriteString(`<div class="tracklet-col">` + col + `</div>`)
	}
	b.WriteString("</div>")
	return b.String()
}

// Sparkline stays textual even in notebooks; the block glyphs render fine
// in HTML.
func (p *notebookPrinter) Sparkline(series []float64) string {
	return sparkify(series)
}
