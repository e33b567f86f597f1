package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abelbrown/tvratings/internal/ratings"
)

// Chart geometry.
const (
	chartHeight    = 11 // rows, one per rating unit on a 0..10 axis
	yLabelWidth    = 6  // "10.0 ┤"
	minPlotWidth   = 10
	densePointsMin = 100 // at or above this many points, draw small markers
)

// renderChart draws values as an ASCII line chart whose y axis runs from
// ratings.AxisMin(values) to ratings.AxisMax. Labels of the first and last
// plotted episode are printed under the x axis.
func renderChart(values []float64, labels []string, width, height int) string {
	if height < 2 {
		height = 2
	}
	plotW := width - yLabelWidth
	if plotW < minPlotWidth {
		plotW = minPlotWidth
	}

	lo, hi := ratings.AxisMin(values), ratings.AxisMax
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", plotW))
	}

	marker := '●'
	if len(values) >= densePointsMin {
		marker = '•'
	}

	cols := pointColumns(len(values), plotW)
	prevCol, prevRow := -1, -1
	for i, v := range values {
		col := cols[i]
		row := valueRow(v, lo, hi, height)
		if prevCol >= 0 && col-prevCol > 1 {
			// interpolate between neighbours so the line reads as connected
			for c := prevCol + 1; c < col; c++ {
				t := float64(c-prevCol) / float64(col-prevCol)
				r := int(math.Round(float64(prevRow) + t*float64(row-prevRow)))
				if grid[r][c] == ' ' {
					grid[r][c] = '·'
				}
			}
		}
		grid[row][col] = marker
		prevCol, prevRow = col, row
	}

	var b strings.Builder
	for r := 0; r < height; r++ {
		tick := hi - float64(r)*(hi-lo)/float64(height-1)
		b.WriteString(ChartAxis.Render(fmt.Sprintf("%4.1f ┤", tick)))
		b.WriteString(ChartLine.Render(string(grid[r])))
		b.WriteByte('\n')
	}
	b.WriteString(ChartAxis.Render(strings.Repeat(" ", yLabelWidth-1) + "└" + strings.Repeat("─", plotW)))

	if len(labels) > 0 {
		first, last := labels[0], labels[len(labels)-1]
		b.WriteByte('\n')
		pad := plotW - len(first) - len(last)
		if len(labels) == 1 || pad < 1 {
			b.WriteString(strings.Repeat(" ", yLabelWidth) + first)
		} else {
			b.WriteString(strings.Repeat(" ", yLabelWidth) + first + strings.Repeat(" ", pad) + last)
		}
	}
	return b.String()
}

// pointColumns spreads n points across w columns. When n > w several
// points share a column and the later one wins.
func pointColumns(n, w int) []int {
	cols := make([]int, n)
	if n <= 1 {
		return cols
	}
	for i := range cols {
		cols[i] = i * (w - 1) / (n - 1)
	}
	return cols
}

// valueRow maps v onto a grid row; row 0 is the top (hi).
func valueRow(v, lo, hi float64, height int) int {
	if hi <= lo {
		return height - 1
	}
	frac := (hi - v) / (hi - lo)
	row := int(math.Round(frac * float64(height-1)))
	return max(0, min(height-1, row))
}

// formatRating prints a rating the way the data service sent it: 8.5, 9, 7.25.
func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
