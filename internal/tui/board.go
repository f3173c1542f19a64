package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/fretdrill/internal/layout"
	"github.com/verte-zerg/fretdrill/internal/render"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

const (
	minCellWidth = 3
	labelWidth   = 3
	// slant is the extra indent per string lane in the 3D view.
	slant = 1
)

// board draws the zones of one neck. Zones are string-major as built by layout.BuildZones.
type board struct {
	zones      []layout.FretZone
	feedback   map[theory.Position]render.Feedback
	tuning     theory.Tuning
	maxFret    int
	width      int
	cursor     theory.Position
	showCursor bool
	debug      bool
}

// columnsFromPercentages sizes each fret space from its share of the neck.
func columnsFromPercentages(percentages []float64, total int) []int {
	out := make([]int, len(percentages))
	var acc float64
	prev := 0
	for i, p := range percentages {
		acc += p
		edge := int(math.Round(acc / 100 * float64(total)))
		out[i] = max(edge-prev, minCellWidth)
		prev = edge
	}
	return out
}

// columnsFromPositions sizes each fret space from the cumulative wire positions,
// with a perspective factor that shrinks spaces further from the nut.
func columnsFromPositions(positions []float64, total int, taper float64) []int {
	if len(positions) < 2 {
		return nil
	}
	project := func(x float64) float64 {
		return x / (1 + taper*x) * (1 + taper)
	}
	out := make([]int, len(positions)-1)
	prev := 0
	for i := 1; i < len(positions); i++ {
		edge := int(math.Round(project(positions[i]) * float64(total)))
		out[i-1] = max(edge-prev, minCellWidth)
		prev = edge
	}
	return out
}

func centerCell(label string, width int, fill string) string {
	lw := runewidth.StringWidth(label)
	if lw >= width {
		return runewidth.Truncate(label, width, "")
	}
	left := (width - lw) / 2
	return strings.Repeat(fill, left) + label + strings.Repeat(fill, width-lw-left)
}

func (b board) stringLabel(s int) string {
	name := b.tuning[s].Open.String()
	if s == 0 {
		name = strings.ToLower(name)
	}
	return name
}

func (b board) cell(z layout.FretZone, width int) string {
	fill := "─"
	style := stringStyle
	if !z.Enabled {
		fill = "┄"
		style = disabledStyle
	}
	label := ""
	kind := b.feedback[z.Position]
	if glyph, ok := feedbackGlyphs[kind]; ok {
		label = glyph
	} else if b.debug {
		label = z.Note.String()
	}
	var text string
	if label == "" {
		text = style.Render(strings.Repeat(fill, width))
	} else {
		padded := centerCell(" "+label+" ", width, fill)
		if fs, ok := feedbackStyles[kind]; ok {
			text = fs.Render(padded)
		} else {
			text = style.Render(padded)
		}
	}
	if b.showCursor && z.Position == b.cursor {
		return cursorStyle.Render(text)
	}
	return text
}

func (b board) lane(s int) []layout.FretZone {
	per := b.maxFret - 1
	start := s * per
	if start+per > len(b.zones) {
		return nil
	}
	return b.zones[start : start+per]
}

// render2D draws a flat schematic: nut on the left, one row per string.
func (b board) render2D() string {
	frets := b.maxFret - 1
	if frets <= 0 || len(b.zones) == 0 {
		return ""
	}
	avail := b.width - labelWidth - 1 - frets
	cols := columnsFromPercentages(layout.FretSpacePercentages(b.maxFret), avail)

	var out strings.Builder
	for s := 0; s < theory.NumStrings; s++ {
		out.WriteString(fmt.Sprintf("%-*s", labelWidth, b.stringLabel(s)))
		out.WriteString(woodStyle.Render("‖"))
		for i, z := range b.lane(s) {
			out.WriteString(b.cell(z, cols[i]))
			out.WriteString(woodStyle.Render("│"))
		}
		out.WriteByte('\n')
	}
	out.WriteString(b.fretNumbers(cols, labelWidth+1))
	out.WriteByte('\n')
	out.WriteString(b.inlays(cols, labelWidth+1))
	return out.String()
}

// render3D draws the neck slanted away from the viewer, sized from the cumulative
// wire positions, with the fingerboard edge and inlays below.
func (b board) render3D() string {
	frets := b.maxFret - 1
	if frets <= 0 || len(b.zones) == 0 {
		return ""
	}
	depth := slant * (theory.NumStrings - 1)
	avail := b.width - labelWidth - 1 - frets - depth
	cols := columnsFromPositions(layout.FretPositions(b.maxFret), avail, 0.35)
	neck := 1 + frets
	for _, c := range cols {
		neck += c
	}

	var out strings.Builder
	out.WriteString(strings.Repeat(" ", labelWidth+depth+1))
	out.WriteString(woodStyle.Render(strings.Repeat("▁", neck-1)))
	out.WriteByte('\n')
	for s := 0; s < theory.NumStrings; s++ {
		indent := slant * (theory.NumStrings - 1 - s)
		out.WriteString(fmt.Sprintf("%-*s", labelWidth, b.stringLabel(s)))
		out.WriteString(strings.Repeat(" ", indent))
		out.WriteString(woodStyle.Render("╱"))
		for i, z := range b.lane(s) {
			out.WriteString(b.cell(z, cols[i]))
			out.WriteString(woodStyle.Render("╱"))
		}
		out.WriteByte('\n')
	}
	out.WriteString(strings.Repeat(" ", labelWidth))
	out.WriteString(woodStyle.Render(strings.Repeat("▀", neck)))
	out.WriteByte('\n')
	out.WriteString(b.fretNumbers(cols, labelWidth+1))
	out.WriteByte('\n')
	out.WriteString(b.inlays(cols, labelWidth+1))
	return out.String()
}

func (b board) fretNumbers(cols []int, indent int) string {
	var out strings.Builder
	out.WriteString(strings.Repeat(" ", indent))
	for i, w := range cols {
		out.WriteString(dimStyle.Render(centerCell(fmt.Sprintf("%d", i+1), w, " ")))
		out.WriteByte(' ')
	}
	return strings.TrimRight(out.String(), " ")
}

func (b board) inlays(cols []int, indent int) string {
	marks := map[int]string{}
	for _, m := range layout.Markers(b.maxFret) {
		if m.Double {
			marks[m.Fret] = "• •"
		} else {
			marks[m.Fret] = "•"
		}
	}
	var out strings.Builder
	out.WriteString(strings.Repeat(" ", indent))
	for i, w := range cols {
		out.WriteString(markerStyle.Render(centerCell(marks[i+1], w, " ")))
		out.WriteByte(' ')
	}
	return strings.TrimRight(out.String(), " ")
}
