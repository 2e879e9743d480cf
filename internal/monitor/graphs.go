package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// renderSparkline creates a sparkline from a slice of values. The width
// parameter caps how many of the most recent data points are drawn. For
// percentage metrics the line is colored by the last value's severity;
// other metrics use the muted graph color.
func renderSparkline(data []float64, width int, percentage bool) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) * 4)

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	for _, v := range data {
		var level int
		if valueRange == 0 {
			level = numLevels / 2
		} else {
			normalized := (v - minVal) / valueRange
			level = int(normalized * float64(numLevels-1))
			if level < 0 {
				level = 0
			} else if level >= numLevels {
				level = numLevels - 1
			}
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}

	color := ColorTextSecondary
	if percentage {
		color = severityColor(data[len(data)-1])
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// isPercentMetric reports whether a metric name carries a percentage unit.
func isPercentMetric(name string) bool {
	return strings.HasSuffix(name, "(%)")
}
