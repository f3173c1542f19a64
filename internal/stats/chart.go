package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Series represents a named data series for charting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultChartHeight  = 6
	minChartWidth       = 10
	chartLabelWidth     = 7
	chartAxis           = " │ "
	terminalWidthBackup = 80
)

var chartBlocks = []rune(" ▁▂▃▄▅▆▇█")

var chartPalette = []lipgloss.Color{"6", "5", "3", "2", "4"}

// RenderChart draws each series as a column chart, one column per value.
// Series longer than the available width are averaged into buckets.
func RenderChart(w io.Writer, series []Series, totalWidth, height int) error {
	if height <= 0 {
		height = defaultChartHeight
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	width := ChartWidthFor(totalWidth)
	renderer := lipgloss.NewRenderer(w)
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		lo, hi := bounds(s.Values)
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, lo, hi); err != nil {
			return err
		}
		style := renderer.NewStyle().Foreground(chartPalette[i%len(chartPalette)])
		for _, line := range chartLines(s.Values, width, height) {
			if _, err := fmt.Fprintln(w, style.Render(line)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

// ChartWidthFor returns the number of chart columns that fit in totalWidth.
func ChartWidthFor(totalWidth int) int {
	width := totalWidth - chartLabelWidth - len([]rune(chartAxis))
	return max(width, minChartWidth)
}

func chartLines(values []float64, width, height int) []string {
	values = downsample(values, width)
	lo, hi := bounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		lo--
		hi++
	}
	steps := len(chartBlocks) - 1
	levels := make([]int, len(values))
	for i, v := range values {
		levels[i] = int(math.Round((v - lo) / (hi - lo) * float64(height*steps)))
	}
	lines := make([]string, height)
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = fmt.Sprintf("%.1f", hi)
		case height - 1:
			label = fmt.Sprintf("%.1f", lo)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%*s%s", chartLabelWidth, label, chartAxis)
		floor := (height - 1 - y) * steps
		for _, level := range levels {
			b.WriteRune(chartBlocks[max(0, min(level-floor, steps))])
		}
		lines[y] = b.String()
	}
	return lines
}

func downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
