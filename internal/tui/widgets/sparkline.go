// ABOUTME: Sparkline widget renders mini trend charts using block characters
// ABOUTME: Used for attempt durations in the logs panel and the stats row

package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters from lowest to highest
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values (oldest first) as one block per column, scaled
// between the smallest and largest value. Longer series are bucketed by
// their maximum; shorter ones are right-aligned with blank columns.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	cols := bucketMax(values, width)
	lo, hi := cols[0], cols[0]
	for _, v := range cols[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range cols {
		b.WriteRune(blockFor(v, lo, hi))
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return strings.Repeat(" ", width-len(cols)) + style.Render(b.String())
}

// bucketMax shrinks values to at most width columns, keeping each bucket's peak
func bucketMax(values []float64, width int) []float64 {
	n := len(values)
	if n <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		from, to := i*n/width, (i+1)*n/width
		peak := values[from]
		for _, v := range values[from+1 : to] {
			peak = math.Max(peak, v)
		}
		out[i] = peak
	}
	return out
}

func blockFor(v, lo, hi float64) rune {
	if hi == lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}
	top := len(SparklineBlocks) - 1
	idx := int(math.Round((v - lo) / (hi - lo) * float64(top)))
	return SparklineBlocks[max(0, min(top, idx))]
}
