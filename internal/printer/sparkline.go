package printer

import "strings"

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// sparkify maps a series onto the block characters, scaled between the
// series min and max. A flat series renders at the middle level.
func sparkify(series []float64) string {
	if len(series) == 0 {
		return ""
	}

	minVal, maxVal := series[0], series[0]
	for _, v := range series {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	var sb strings.Builder
	sb.Grow(len(series) * 3)
	for _, v := range series {
		level := numLevels / 2
		if valueRange != 0 {
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
	return sb.String()
}
