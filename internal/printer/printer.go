// Package printer renders buffered run output to its medium. Two variants
// exist: a plain terminal printer styled with lipgloss and a notebook
// printer emitting HTML. Which one a caller gets is a pure function of the
// notebook probe; nothing here subclasses anything.
package printer

import (
	"os"
	"strings"
)

// Printer is the capability a display sink must provide. Formatting
// helpers map semantic text roles to medium-specific markup; Display
// flushes whatever Info/Warn/Error buffered since the last flush.
type Printer interface {
	// Info buffers an informational line.
	Info(text string)
	// Warn buffers a warning line.
	Warn(text string)
	// Error buffers an error line.
	Error(text string)
	// Display flushes all buffered lines to the medium.
	Display()

	Code(text string) string
	Name(text string) string
	Link(url, text string) string
	Emoji(name string) string
	Status(text string, failure bool) string
	Files(text string) string
	Grid(rows [][]string, title string) string
	Panel(columns []string) string
	Sparkline(series []float64) string
}

// New selects the printer variant: the notebook printer when a notebook
// frontend is active, the terminal printer otherwise.
func New(notebook bool) Printer {
	if notebook && NotebookActive() {
		return newNotebookPrinter()
	}
	return newTermPrinter()
}

// NotebookActive probes whether a notebook frontend is driving this
// process. Jupyter kernels export JPY_* into their children;
// TRACKLET_NOTEBOOK forces the answer for embedders.
func NotebookActive() bool {
	if v := os.Getenv("TRACKLET_NOTEBOOK"); v != "" {
		return strings.EqualFold(v, "true")
	}
	return os.Getenv("JPY_PARENT_PID") != "" || os.Getenv("JPY_SESSION_NAME") != ""
}

// buffers holds the pending output lines shared by both variants.
type buffers struct {
	info     []string
	warnings []string
	errs     []string
}

func (b *buffers) Info(text string)  { b.info = append(b.info, text) }
func (b *buffers) Warn(text string)  { b.warnings = append(b.warnings, text) }
func (b *buffers) Error(text string) { b.errs = append(b.errs, text) }

// unicodeSafe reports whether the terminal locale advertises UTF-8.
// Sparklines and emoji degrade to nothing on anything else.
func unicodeSafe() bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(env); v != "" {
			upper := strings.ToUpper(v)
			return strings.Contains(upper, "UTF-8") || strings.Contains(upper, "UTF8")
		}
	}
	return false
}
