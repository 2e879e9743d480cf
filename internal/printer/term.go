package printer

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tracklet/tracklet/internal/logger"
)

// Semantic colors, ANSI codes for terminal compatibility.
const (
	colorSuccess lipgloss.Color = "2" // Green
	colorError   lipgloss.Color = "1" // Red
	colorWarning lipgloss.Color = "3" // Yellow
	colorName    lipgloss.Color = "3" // Yellow
	colorLink    lipgloss.Color = "4" // Blue
	colorFiles   lipgloss.Color = "5" // Magenta
)

var (
	codeStyle  = lipgloss.NewStyle().Bold(true)
	nameStyle  = lipgloss.NewStyle().Foreground(colorName)
	linkStyle  = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	filesStyle = lipgloss.NewStyle().Foreground(colorFiles).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	failStyle  = lipgloss.NewStyle().Foreground(colorError)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarning)
)

// termPrinter renders to the terminal through the standard logger.
type termPrinter struct {
	buffers
	log logger.Logger
}

func newTermPrinter() *termPrinter {
	return &termPrinter{log: logger.Default()}
}

func (p *termPrinter) Display() {
	if len(p.info) > 0 {
		p.log.Info("%s", strings.Join(p.info, "\n"))
		p.info = nil
	}
	if len(p.warnings) > 0 {
		p.log.Warn("%s", warnStyle.Render(strings.Join(p.warnings, "\n")))
		p.warnings = nil
	}
	if len(p.errs) > 0 {
		p.log.Error("%s", failStyle.Render(strings.Join(p.errs, "\n")))
		p.errs = nil
	}
}

func (p *termPrinter) Code(text string) string {
	return codeStyle.Render(text)
}

func (p *termPrinter) Name(text string) string {
	return nameStyle.Render(text)
}

func (p *termPrinter) Link(url, text string) string {
	return linkStyle.Render(url)
}

func (p *termPrinter) Emoji(name string) string {
	if runtime.GOOS == "windows" || !unicodeSafe() {
		return ""
	}
	emojis := map[string]string{
		"star":   "⭐️",
		"broom":  "🧹",
		"rocket": "🚀",
	}
	return emojis[name]
}

func (p *termPrinter) Status(text string, failure bool) string {
	if failure {
		return failStyle.Render(text)
	}
	return okStyle.Render(text)
}

func (p *termPrinter) Files(text string) string {
	return filesStyle.Render(text)
}

// Grid right-aligns the first column to its widest cell and joins the rest
// with single spaces.
func (p *termPrinter) Grid(rows [][]string, title string) string {
	if len(rows) == 0 {
		return ""
	}
	maxLen := 0
	for _, row := range rows {
		if len(row) > 0 && len(row[0]) > maxLen {
			maxLen = len(row[0])
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	for _, row := range rows {
		for i, cell := range row {
			if i == 0 {
				fmt.Fprintf(&b, "%*s", maxLen, cell)
			} else {
				b.WriteString(" ")
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (p *termPrinter) Panel(columns []string) string {
	return "\n" + strings.Join(columns, "\n")
}

func (p *termPrinter) Sparkline(series []float64) string {
	if !unicodeSafe() {
		return ""
	}
	return sparkify(series)
}
