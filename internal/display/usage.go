package display

import "strings"

// Bar is a horizontal gauge of used against limit.
type Bar struct {
	Filled  string
	Empty   string
	Percent int
}

// NewBar fills width cells in proportion to used/limit. A non-positive
// limit gives an empty bar.
func NewBar(used, limit int64, width int) Bar {
	if limit <= 0 || used < 0 {
		return Bar{Empty: strings.Repeat("░", width)}
	}
	filled := int(float64(width) * float64(used) / float64(limit))
	if filled > width {
		filled = width
	}
	return Bar{
		Filled:  strings.Repeat("█", filled),
		Empty:   strings.Repeat("░", width-filled),
		Percent: int(float64(used) / float64(limit) * 100),
	}
}

var sparks = []rune(" ▁▂▃▄▅▆▇█")

// Sparkline draws one block per value, scaled to the largest.
func Sparkline(values []int) string {
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		i := 0
		if peak > 0 && v > 0 {
			i = v * (len(sparks) - 1) / peak
		}
		b.WriteRune(sparks[i])
	}
	return b.String()
}
