package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// graphWidth is how many history points each sparkline draws.
const graphWidth = 30

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderMetrics())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the dashboard header with summary stats.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("tracklet monitor")

	var updateText string
	switch {
	case m.lastUpdate.IsZero():
		updateText = "waiting for first sample " + m.spinner.View()
	case time.Since(m.lastUpdate) < time.Second:
		updateText = "just now"
	default:
		updateText = fmt.Sprintf("%ds ago", int(time.Since(m.lastUpdate).Seconds()))
	}

	summary := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %d metrics | last sample %s", len(m.order), updateText))

	header := HeaderStyle.Render(title + summary)
	if m.paused {
		header += " " + PausedStyle.Render("PAUSED")
	}
	return header
}

// renderMetrics renders one row per metric: name, current value, sparkline.
func (m Model) renderMetrics() string {
	if len(m.order) == 0 {
		if m.lastErr != "" {
			return ErrorStyle.Render("sampling failed: " + m.lastErr)
		}
		return MetricNameStyle.Render("No metrics yet")
	}

	nameWidth := 0
	for _, name := range m.order {
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
	}

	var rows []string
	for _, name := range m.order {
		value := m.current[name]
		history := m.history.Get(name, graphWidth)
		spark := renderSparkline(history, graphWidth, isPercentMetric(name))

		row := fmt.Sprintf("%s  %s  %s",
			MetricNameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
			MetricValueStyle.Render(fmt.Sprintf("%10.2f", value)),
			spark)
		rows = append(rows, row)
	}

	body := PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.lastErr != "" {
		body += "\n" + ErrorStyle.Render("last sample error: "+m.lastErr)
	}
	return body
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"p pause",
		"c clear history",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}
