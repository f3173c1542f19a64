package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/fretdrill/internal/model"
)

// RenderNoteTable prints per-note aggregates, weakest first.
func RenderNoteTable(w io.Writer, title string, aggs []model.NoteAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No note stats found.")
		return err
	}
	rows := make([]model.NoteAggregate, len(aggs))
	copy(rows, aggs)
	sortByAccuracy(rows)

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"Note", "Accuracy", "Correct", "Wrong", ""}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		acc := accuracy(r)
		tableRows = append(tableRows, []string{
			r.Note,
			fmt.Sprintf("%.2f%%", acc*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Wrong),
			accuracyBar(acc, 10),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func accuracyBar(acc float64, width int) string {
	filled := int(acc*float64(width) + 0.5)
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
