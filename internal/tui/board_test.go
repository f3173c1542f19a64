package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/fretdrill/internal/layout"
	"github.com/verte-zerg/fretdrill/internal/render"
	"github.com/verte-zerg/fretdrill/internal/theory"
)

func testBoard(width int) board {
	return board{
		zones:    layout.BuildZones(theory.StandardTuning(), theory.DefaultMaxFret, theory.FretRange(20, 22)),
		feedback: map[theory.Position]render.Feedback{},
		tuning:   theory.StandardTuning(),
		maxFret:  theory.DefaultMaxFret,
		width:    width,
	}
}

func TestColumnsFromPercentages(t *testing.T) {
	cols := columnsFromPercentages(layout.FretSpacePercentages(theory.DefaultMaxFret), 400)
	if len(cols) != theory.DefaultMaxFret-1 {
		t.Fatalf("expected %d columns, got %d", theory.DefaultMaxFret-1, len(cols))
	}
	sum := 0
	for _, c := range cols {
		if c < minCellWidth {
			t.Fatalf("column narrower than minimum: %v", cols)
		}
		sum += c
	}
	if sum != 400 {
		t.Fatalf("expected columns to fill 400 cells, got %d", sum)
	}
	if cols[0] <= cols[len(cols)-1] {
		t.Fatalf("expected the first fret space to be widest: %v", cols)
	}
}

func TestColumnsFromPositionsTaper(t *testing.T) {
	flat := columnsFromPositions(layout.FretPositions(theory.DefaultMaxFret), 400, 0)
	tapered := columnsFromPositions(layout.FretPositions(theory.DefaultMaxFret), 400, 0.5)
	if len(flat) != theory.DefaultMaxFret-1 {
		t.Fatalf("unexpected column count %d", len(flat))
	}
	if tapered[0] <= flat[0] {
		t.Fatalf("expected taper to widen the first fret: flat %d tapered %d", flat[0], tapered[0])
	}
}

func TestCenterCell(t *testing.T) {
	if got := centerCell("A", 5, "-"); got != "--A--" {
		t.Fatalf("unexpected cell %q", got)
	}
	if got := centerCell("F#", 5, "-"); got != "-F#--" {
		t.Fatalf("unexpected cell %q", got)
	}
	if got := centerCell("toolong", 3, "-"); got != "too" {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestRender2D(t *testing.T) {
	b := testBoard(120)
	b.feedback[theory.Position{StringIndex: 1, Fret: 1}] = render.Correct
	out := b.render2D()
	lines := strings.Split(out, "\n")
	if len(lines) != theory.NumStrings+2 {
		t.Fatalf("expected %d lines, got %d:\n%s", theory.NumStrings+2, len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "e") || !strings.HasPrefix(lines[5], "E") {
		t.Fatalf("unexpected string labels:\n%s", out)
	}
	if !strings.Contains(lines[1], "●") {
		t.Fatalf("expected correct mark on B string:\n%s", out)
	}
	if !strings.Contains(lines[0], "┄") {
		t.Fatalf("expected disabled frets drawn dimmed:\n%s", out)
	}
	if !strings.Contains(lines[7], "• •") {
		t.Fatalf("expected double inlay at 12:\n%s", out)
	}
}

func TestRender3DDebugShowsNotes(t *testing.T) {
	b := testBoard(140)
	b.debug = true
	out := b.render3D()
	lines := strings.Split(out, "\n")
	if len(lines) != theory.NumStrings+4 {
		t.Fatalf("expected %d lines, got %d:\n%s", theory.NumStrings+4, len(lines), out)
	}
	if !strings.Contains(lines[1], " F ") {
		t.Fatalf("expected note name for high e fret 1:\n%s", out)
	}
	if !strings.Contains(lines[1], "╱") {
		t.Fatalf("expected slanted fret wires:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "e  "+strings.Repeat(" ", slant*(theory.NumStrings-1))+"╱") {
		t.Fatalf("expected high string lane to be indented:\n%s", out)
	}
}

func TestWrap(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{11, 1, 10, 1},
		{0, 1, 10, 10},
		{5, 1, 10, 5},
		{-1, 0, 22, 22},
	}
	for _, tc := range cases {
		if got := wrap(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Fatalf("wrap(%d,%d,%d)=%d want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}
